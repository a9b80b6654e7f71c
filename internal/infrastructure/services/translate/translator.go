// Package translate - адаптер Google Translate v2.
package translate

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/domain/valueobjects"
	"github.com/Haleralex/quefilme/internal/infrastructure/httpclient"
)

const (
	serviceName   = "translator"
	translatePath = "/language/translate/v2"
)

// Config - настройки переводчика.
type Config struct {
	BaseURL string
	APIKey  string
}

// Translator реализует ports.Translator.
type Translator struct {
	client httpclient.Client
	cfg    Config
}

var _ ports.Translator = (*Translator)(nil)

// NewTranslator создаёт адаптер.
func NewTranslator(client httpclient.Client, cfg Config) *Translator {
	return &Translator{client: client, cfg: cfg}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate: POST {base}/language/translate/v2?key={key}.
// An answer without translations yields "".
func (t *Translator) Translate(ctx context.Context, text string, source, target valueobjects.Language) (string, error) {
	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + translatePath + "?key=" + url.QueryEscape(t.cfg.APIKey)

	resp, err := t.client.Do(ctx, httpclient.Request{
		Service: serviceName,
		Method:  http.MethodPost,
		URL:     endpoint,
		Body: translateRequest{
			Q:      text,
			Source: source.Code(),
			Target: target.Code(),
			Format: "text",
		},
	})
	if err != nil {
		return "", err
	}

	body, err := httpclient.HandleResponse(resp)
	if err != nil {
		return "", err
	}

	var out translateResponse
	if err := httpclient.DecodeJSON(body, &out); err != nil {
		return "", errors.WithCause(errors.Unexpected(), err)
	}

	if len(out.Data.Translations) == 0 {
		return "", nil
	}
	return out.Data.Translations[0].TranslatedText, nil
}
