package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"hangovr/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	sections := []struct {
		name string
		data interface{}
	}{
		{"webServer", &cv.conf.WebServer},
		{"logger", &cv.conf.Logger},
		{"population", &cv.conf.Population},
		{"session", &cv.conf.Session},
	}
	if cv.conf.Persistence.Enabled {
		sections = append(sections, struct {
			name string
			data interface{}
		}{"persistence", &cv.conf.Persistence})
	}

	for _, s := range sections {
		v := validate.Struct(s.data)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", s.name, v.Errors.One())
		}
	}
	return nil
}
