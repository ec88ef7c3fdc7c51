package main

// config.go maps environment configuration and the optional status-label
// override file.

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func mustMapEnv(target *string, envKey string) {
	v := os.Getenv(envKey)
	if v == "" {
		panic(fmt.Sprintf("environment variable %q not set", envKey))
	}
	*target = v
}

func mapEnvDefault(envKey, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}

// defaultStatusLabels maps backend order status codes to the Thai display
// labels the shop shows. Unknown codes render verbatim.
var defaultStatusLabels = map[string]string{
	"Pending":  "รอดำเนินการ",
	"Shipping": "กำลังจัดส่ง",
	"Success":  "สำเร็จ",
}

// loadStatusLabels reads a YAML status→label map from path, for shops that
// want different wording. An empty path keeps the defaults.
func loadStatusLabels(path string) (map[string]string, error) {
	if path == "" {
		return defaultStatusLabels, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading status labels")
	}
	labels := map[string]string{}
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, errors.Wrap(err, "parsing status labels")
	}
	for code, label := range defaultStatusLabels {
		if _, ok := labels[code]; !ok {
			labels[code] = label
		}
	}
	return labels, nil
}

// statusLabel maps a backend status code to its display label, passing
// unknown codes through unchanged.
func (fe *frontendServer) statusLabel(code string) string {
	if label, ok := fe.statusLabels[code]; ok {
		return label
	}
	return code
}
