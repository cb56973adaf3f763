package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Stage kinds. The orchestrator tags every stage failure with exactly one of these.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrExtraction     = errors.New("extraction failed")
	ErrSpeech         = errors.New("speech failed")
	ErrSubtitle       = errors.New("subtitle failed")
	ErrVisual         = errors.New("visual failed")
	ErrEffectTool     = errors.New("effect tool failed")
	ErrMux            = errors.New("mux failed")
	ErrAudioFormat    = errors.New("audio format error")
	ErrConfiguration  = errors.New("configuration error")
)

// Details reported by stage implementations.
var (
	ErrNoProvider          = errors.New("no provider")
	ErrNetwork             = errors.New("network error")
	ErrEmptyInput          = errors.New("empty input")
	ErrIO                  = errors.New("io failure")
	ErrImage               = errors.New("image failure")
	ErrDurationUnavailable = errors.New("duration unavailable")
	ErrToolInit            = errors.New("tool init failed")
	ErrMuxFailed           = errors.New("mux tool failed")
	ErrPrecondition        = errors.New("precondition not met")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. Markers already present in err stay reachable through errors.Is.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Detail tags err with a detail marker such as ErrNetwork or ErrIO.
func Detail(marker error, message string, err error) error {
	message = strings.TrimSpace(message)
	switch {
	case err == nil && message == "":
		return marker
	case err == nil:
		return fmt.Errorf("%w: %s", marker, message)
	case message == "":
		return fmt.Errorf("%w: %w", marker, err)
	default:
		return fmt.Errorf("%w: %s: %w", marker, message, err)
	}
}

// Kind returns the stage marker carried by err, or nil.
func Kind(err error) error {
	for _, kind := range []error{
		ErrSourceNotFound, ErrExtraction, ErrSpeech, ErrSubtitle, ErrVisual,
		ErrEffectTool, ErrMux, ErrAudioFormat, ErrConfiguration,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
