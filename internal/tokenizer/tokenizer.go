// Package tokenizer estimates token counts for generated artifacts.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is the tokenizer model assumed when none is configured.
	DefaultModel = "gpt-4o"

	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model. Models without a known
// encoding fall back to the default encoding rather than failing the run.
func NewCounter(model string) (Counter, string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	lowerModel := strings.ToLower(model)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
	if encodingError == nil && encoding != nil {
		return modelCounter{encoding: encoding, name: lowerModel}, model, nil
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return modelCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

type modelCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter modelCounter) Name() string {
	return counter.name
}

func (counter modelCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
