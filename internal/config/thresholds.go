package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/couchcryptid/deck-conformance/internal/domain"
)

// LoadThresholds reads the inclination limit profile. Defaults are the
// regulatory values; an optional YAML file (path, or conformance.yaml in . or
// ./configs when path is empty) and CONFORMANCE_* environment variables
// override them, e.g. CONFORMANCE_TRANSVERSAL=4.5.
func LoadThresholds(path string) (domain.Thresholds, error) {
	v := viper.New()

	def := domain.DefaultThresholds()
	v.SetDefault("transversal", def.Transversal)
	v.SetDefault("longitudinal", def.Longitudinal)
	v.SetDefault("warning_fraction", def.WarningFraction)
	v.SetDefault("moderate_fraction", def.ModerateFraction)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return domain.Thresholds{}, fmt.Errorf("read CONFORMANCE_CONFIG %s: %w", path, err)
		}
	} else {
		v.SetConfigName("conformance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return domain.Thresholds{}, fmt.Errorf("read conformance config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CONFORMANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var th domain.Thresholds
	if err := v.Unmarshal(&th); err != nil {
		return domain.Thresholds{}, fmt.Errorf("unmarshal thresholds: %w", err)
	}
	if err := th.Validate(); err != nil {
		return domain.Thresholds{}, fmt.Errorf("invalid conformance thresholds: %w", err)
	}
	return th, nil
}
