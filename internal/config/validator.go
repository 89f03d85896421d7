package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/urlhandler"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for file existence
	_ = validate.RegisterValidation("fileexists", func(fl validator.FieldLevel) bool {
		filePath := fl.Field().String()
		if filePath == "" {
			return true // Optional field, valid if empty
		}
		_, err := os.Stat(filePath)
		return !os.IsNotExist(err) // True if file exists or other error (e.g. permission denied)
	})

	// Register custom validation for directory path existence (basic check)
	_ = validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		dirPath := fl.Field().String()
		if dirPath == "" {
			return true // Optional field
		}
		info, err := os.Stat(dirPath)
		if os.IsNotExist(err) {
			return false
		}
		return err == nil && info.IsDir()
	})

	// Register custom validation for slices of URLs (ensure they are valid URLs)
	_ = validate.RegisterValidation("urls", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Slice {
			return false
		}
		slice, ok := fl.Field().Interface().([]string)
		if !ok {
			return false // Should not happen if struct tag is on a []string
		}
		for _, s := range slice {
			if err := urlhandler.ValidateURLFormat(s); err != nil {
				return false
			}
		}
		return true
	})

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for Mode
	_ = validate.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		mode := strings.ToLower(fl.Field().String())
		switch mode {
		case "", "onetime", "automated": // Allow empty for omitempty, or specific values
			return true
		default:
			return false
		}
	})

	// Register custom validation for volatility regular expressions
	_ = validate.RegisterValidation("volatileregex", func(fl validator.FieldLevel) bool {
		pattern := fl.Field().String()
		if pattern == "" {
			return true
		}
		_, err := regexp.Compile("(?i)" + pattern)
		return err == nil
	})

	// Severity thresholds must escalate strictly
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		thresholds := sl.Current().Interface().(SeverityThresholdsConfig)
		if thresholds.Moderate == 0 && thresholds.Important == 0 && thresholds.Critical == 0 {
			return // Section omitted entirely, defaults apply downstream
		}
		if thresholds.Moderate >= thresholds.Important {
			sl.ReportError(thresholds.Moderate, "Moderate", "moderate", "severityorder", "")
		}
		if thresholds.Important >= thresholds.Critical {
			sl.ReportError(thresholds.Important, "Important", "important", "severityorder", "")
		}
	}, SeverityThresholdsConfig{})

	err := validate.Struct(cfg)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			var validationErrorMessages []string
			for _, e := range errs {
				msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", e.StructNamespace(), e.Tag())
				if e.Param() != "" {
					msg += fmt.Sprintf(" (expected: %s)", e.Param())
				}
				if e.Value() != nil && e.Value() != "" {
					msg += fmt.Sprintf(", actual: '%v'", e.Value())
				}
				validationErrorMessages = append(validationErrorMessages, msg)
			}
			return fmt.Errorf("%w:\n  %s", common.ErrInvalidConfiguration, strings.Join(validationErrorMessages, "\n  "))
		}
		return fmt.Errorf("configuration validation error: %w", err)
	}
	return nil
}
