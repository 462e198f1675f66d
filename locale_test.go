package vsmac

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

var errFake = errors.New("fake channel failure")

type stubChannel struct {
	response string
	err      error
	sends    []string
}

func (c *stubChannel) Send(serial, command string) (string, error) {
	c.sends = append(c.sends, command)
	return c.response, c.err
}

func TestGetLocaleParsesPropertyDump(t *testing.T) {
	channel := &stubChannel{response: strings.Join([]string{
		"[persist.sys.timezone]: [Europe/Berlin]",
		"[persist.sys.locale]: [de-DE]",
		"[ro.build.version.release]: [11]",
	}, "\n")}
	controller := NewLocaleController(channel)

	if got := controller.GetLocale("emulator-5554"); got != "de-DE" {
		t.Fatalf("locale mismatch: %q", got)
	}
	if len(channel.sends) != 1 || channel.sends[0] != "" {
		t.Fatalf("expected one default property dump, got %v", channel.sends)
	}
}

func TestGetLocalePrefersFirstMatchingLine(t *testing.T) {
	channel := &stubChannel{response: strings.Join([]string{
		"[persist.sys.language]: [ja]",
		"[persist.sys.locale]: [de-DE]",
	}, "\n")}
	controller := NewLocaleController(channel)

	if got := controller.GetLocale(""); got != "ja" {
		t.Fatalf("locale mismatch: %q", got)
	}
}

func TestGetLocaleAbsentProperty(t *testing.T) {
	channel := &stubChannel{response: "[ro.product.model]: [sdk_gphone_x86]\n"}
	controller := NewLocaleController(channel)

	if got := controller.GetLocale(""); got != "" {
		t.Fatalf("expected empty locale, got %q", got)
	}
}

func TestGetLocaleMalformedLineIsSkipped(t *testing.T) {
	channel := &stubChannel{response: "persist.sys.locale de-DE no brackets here\n"}
	controller := NewLocaleController(channel)

	if got := controller.GetLocale(""); got != "" {
		t.Fatalf("expected empty locale for malformed line, got %q", got)
	}
}

func TestGetLocaleIdempotent(t *testing.T) {
	channel := &stubChannel{response: "[persist.sys.locale]: [ja-JP]\n"}
	controller := NewLocaleController(channel)

	first := controller.GetLocale("serial-1")
	second := controller.GetLocale("serial-1")
	if first != second || first != "ja-JP" {
		t.Fatalf("get-locale not idempotent: %q then %q", first, second)
	}
}

func TestGetLocaleChannelFailureYieldsEmpty(t *testing.T) {
	channel := &stubChannel{err: errFake}
	controller := NewLocaleController(channel)

	if got := controller.GetLocale(""); got != "" {
		t.Fatalf("expected empty locale on channel failure, got %q", got)
	}
}

func TestSetLocaleRejectsUnknownCodeWithoutDeviceCommand(t *testing.T) {
	channel := &stubChannel{}
	controller := NewLocaleController(channel)

	if err := controller.SetLocale("", "xx-XX"); err == nil {
		t.Fatal("expected error for unsupported locale")
	}
	if len(channel.sends) != 0 {
		t.Fatalf("no device command should be issued, got %v", channel.sends)
	}
}

func TestSetLocaleBroadcastsIntent(t *testing.T) {
	channel := &stubChannel{}
	controller := NewLocaleController(channel)

	if err := controller.SetLocale("emulator-5554", "de-DE"); err != nil {
		t.Fatalf("set locale failed: %v", err)
	}
	if len(channel.sends) != 1 {
		t.Fatalf("expected one broadcast, got %v", channel.sends)
	}
	sent := channel.sends[0]
	for _, part := range []string{"am broadcast", localeSetAction, localeSetExtra, "de-DE"} {
		if !strings.Contains(sent, part) {
			t.Fatalf("broadcast command missing %q: %s", part, sent)
		}
	}
}

func TestSetLocaleSwallowsChannelFailure(t *testing.T) {
	channel := &stubChannel{err: errFake}
	controller := NewLocaleController(channel)

	if err := controller.SetLocale("", "en"); err != nil {
		t.Fatalf("channel failure must not surface: %v", err)
	}
}
