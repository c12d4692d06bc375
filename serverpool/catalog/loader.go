package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"vpnpick/internal/shared/logger"
	"vpnpick/serverpool/model"
)

// LoadCatalog 加载 server_map.json (服务器标识 -> IP)。
// 文件缺失、格式错误或内容为空都会返回包装了 model.ErrConfiguration 的错误。
func LoadCatalog(fileName string) (model.Catalog, error) {
	l := logger.WithComponent("ServerPool/Catalog")

	if fileName == "" {
		return model.Catalog{}, fmt.Errorf("%w: catalog file path is empty", model.ErrConfiguration)
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("%w: failed to read catalog file: %v", model.ErrConfiguration, err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return model.Catalog{}, fmt.Errorf("%w: failed to unmarshal %s: %v", model.ErrConfiguration, fileName, err)
	}
	for id, ip := range entries {
		if id == "" || ip == "" {
			return model.Catalog{}, fmt.Errorf("%w: catalog entry %q -> %q is incomplete", model.ErrConfiguration, id, ip)
		}
	}

	c := model.NewCatalog(entries)
	if c.Len() == 0 {
		return model.Catalog{}, fmt.Errorf("%w: catalog %s is empty", model.ErrConfiguration, fileName)
	}

	l.Info().Int("count", c.Len()).Str("path", fileName).Msg("Loaded server catalog.")
	return c, nil
}

// LoadExcluded 加载 excluded.json (被排除的服务器标识列表)。
// 文件不存在时返回空集合，而不是错误。
func LoadExcluded(fileName string) (model.ExcludedSet, error) {
	l := logger.WithComponent("ServerPool/Catalog")

	if fileName == "" {
		return model.NewExcludedSet(nil), nil
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			l.Info().Str("path", fileName).Msg("Excluded server file not found, running with an empty set.")
			return model.NewExcludedSet(nil), nil
		}
		return model.ExcludedSet{}, fmt.Errorf("%w: failed to read excluded file: %v", model.ErrConfiguration, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return model.ExcludedSet{}, fmt.Errorf("%w: failed to unmarshal %s: %v", model.ErrConfiguration, fileName, err)
	}

	set := model.NewExcludedSet(ids)
	l.Info().Int("count", set.Len()).Str("path", fileName).Msg("Loaded excluded servers.")
	return set, nil
}
