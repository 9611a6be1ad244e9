package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"snaplogd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (v *CnfValidator) Validate() error {
	for section, target := range map[string]interface{}{
		"storage":    &v.conf.Storage,
		"conversion": &v.conf.Conversion,
		"history":    &v.conf.History,
		"logger":     &v.conf.Logger,
	} {
		val := validate.Struct(target)
		if !val.Validate() {
			return fmt.Errorf("invalid %s configuration: %s", section, val.Errors.One())
		}
	}
	return nil
}
