package regime_client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"signalbrain/internal/domain"
)

// Client fetches the current regime label from the external market-regime
// detector. The engine treats the label as an opaque string; anything other
// than OBSERVATION passes the risk gate's regime check.
type Client struct {
	BaseUrl    string
	HttpClient *http.Client
}

func New(baseUrl string) *Client {
	return &Client{
		BaseUrl:    baseUrl,
		HttpClient: http.DefaultClient,
	}
}

type regimeResponse struct {
	Regime string  `json:"regime"`
	Bias   *string `json:"bias"`
}

func (c *Client) GetRegimeLabel(symbol string) (string, error) {
	url := fmt.Sprintf("%s/regime?symbol=%s", c.BaseUrl, symbol)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	response, err := c.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch regime for %s: %w", symbol, err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != 200 {
		return "", fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
	}

	responseJson := regimeResponse{}
	err = json.Unmarshal(responseBytes, &responseJson)
	if err != nil {
		return "", fmt.Errorf("failed to parse regime response: %w", err)
	}

	if responseJson.Regime == "" {
		return domain.RegimeLabel_Actionable, nil
	}

	return responseJson.Regime, nil
}
