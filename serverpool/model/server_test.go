package model

import (
	"reflect"
	"testing"
)

func TestNewAllowedRegions_Normalizes(t *testing.T) {
	got := NewAllowedRegions(" ma", "NY", "", "ma", "nj ")
	want := AllowedRegions{"MA", "NY", "NJ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, but got %v", want, got)
	}
	if got.Contains("CA") || !got.Contains("NJ") {
		t.Errorf("Unexpected membership for %v", got)
	}
}

func TestCatalog_CopiesInput(t *testing.T) {
	src := map[string]string{"US-MA-01": " 79.127.160.187 "}
	c := NewCatalog(src)
	src["us-ma-05"] = "1.2.3.4"

	if c.Len() != 1 {
		t.Errorf("Expected catalog to be unaffected by later writes, but got %d entries", c.Len())
	}
	if ip, ok := c.Lookup("us-ma-01"); !ok || ip != "79.127.160.187" {
		t.Errorf("Expected normalized entry, but got %q (%v)", ip, ok)
	}
}

func TestExcludedSet_ZeroValue(t *testing.T) {
	var e ExcludedSet
	if e.Contains("us-ma-01") || e.Len() != 0 || len(e.IDs()) != 0 {
		t.Error("Expected the zero ExcludedSet to be empty")
	}
}
