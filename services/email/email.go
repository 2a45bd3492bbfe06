// Package emailsvc implements core.EmailService.
package emailsvc

import (
	"log"

	"github.com/trezcool/koperasi/core"
)

// Open returns the console service in debug mode and SendGrid otherwise.
func Open(std *log.Logger, conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridAPIKey == "" {
		return NewConsoleService(std, conf)
	}
	return NewSendgridService(conf, logger)
}
