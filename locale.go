package vsmac

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// bracketValue captures the value part of a getprop line, e.g.
// "[persist.sys.locale]: [de-DE]" yields "de-DE".
var bracketValue = regexp.MustCompile(`:\s*\[([^\]]*)\]`)

// LocaleController reads and sets the device locale over a DeviceChannel.
type LocaleController struct {
	Channel DeviceChannel
}

// NewLocaleController wraps channel; channel must be non-nil.
func NewLocaleController(channel DeviceChannel) *LocaleController {
	return &LocaleController{Channel: channel}
}

// GetLocale issues a property dump and scans it for the system language or
// locale property. It returns the first bracketed value found, or "" when
// no matching line exists. Channel failures also yield "" rather than an
// error; a device state without a locale property is a legitimate answer.
func (c *LocaleController) GetLocale(serial string) string {
	output, err := c.Channel.Send(serial, "")
	if err != nil {
		log.Debug().Err(err).Str("serial", serial).Msg("property dump failed")
		return ""
	}
	return scanLocaleProperty(output)
}

// SetLocale validates code against the supported set, then broadcasts the
// locale-change intent to the device. The broadcast is fire-and-forget:
// the device's response is not inspected and the locale change is not
// verified. Callers that need a post-condition should call GetLocale.
func (c *LocaleController) SetLocale(serial, code string) error {
	if !IsSupportedLocale(code) {
		return errors.Errorf("unsupported locale %q", code)
	}
	command := fmt.Sprintf("am broadcast -a %s --es %s %s", localeSetAction, localeSetExtra, code)
	if _, err := c.Channel.Send(serial, command); err != nil {
		log.Debug().Err(err).Str("serial", serial).Str("locale", code).Msg("locale broadcast failed")
	}
	return nil
}

// scanLocaleProperty walks a getprop dump line by line and extracts the
// first bracketed value on a language/locale property line. Returns "" when
// nothing matches.
func scanLocaleProperty(dump string) string {
	for _, line := range strings.Split(dump, "\n") {
		if !strings.Contains(line, propSystemLanguage) && !strings.Contains(line, propSystemLocale) {
			continue
		}
		if m := bracketValue.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
