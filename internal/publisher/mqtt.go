package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/energydash/internal/config"
	"github.com/jgoulah/energydash/pkg/models"
)

// Publisher sends predictions to MQTT and/or Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	http        *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, topicPrefix string, haCfg config.HAConfig) (*Publisher, error) {
	if !mqttCfg.Enabled && !haCfg.Enabled {
		return nil, fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Configure MQTT client options
		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("energydash")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		// Create and connect client
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: strings.TrimRight(topicPrefix, "/"),
		haConfig:    haCfg,
		http:        &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// PredictionPayload is the MQTT message body for a prediction
type PredictionPayload struct {
	PredictedBill  float64   `json:"predicted_bill"`
	PredictedUnits float64   `json:"predicted_units"`
	RoundedBill    float64   `json:"rounded_bill"`
	Month          string    `json:"month,omitempty"`
	Bills          []float64 `json:"bills"`
	CreatedAt      string    `json:"created_at"`
}

// HAState matches the Home Assistant REST API state body
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Publish sends a prediction to every enabled sink
func (p *Publisher) Publish(r models.PredictionRecord) error {
	if p.client != nil {
		if err := p.publishMQTT(r); err != nil {
			return err
		}
	}
	if p.haConfig.Enabled {
		if err := p.publishHA(r); err != nil {
			return err
		}
	}
	return nil
}

// Topic returns the MQTT topic predictions are published on
func (p *Publisher) Topic() string {
	return p.topicPrefix + "/prediction"
}

func (p *Publisher) publishMQTT(r models.PredictionRecord) error {
	body, err := json.Marshal(NewPredictionPayload(r))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(p.Topic(), 1, true, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publishing to %s: timed out", p.Topic())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.Topic(), err)
	}
	return nil
}

func (p *Publisher) publishHA(r models.PredictionRecord) error {
	// Build the full API URL
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.haConfig.EntityID)

	body, err := json.Marshal(NewHAState(r))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// HA answers 201 when the entity is created and 200 when it is updated
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Read error response body for debugging
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// NewPredictionPayload builds the MQTT message for a stored prediction
func NewPredictionPayload(r models.PredictionRecord) PredictionPayload {
	return PredictionPayload{
		PredictedBill:  r.PredictedBill,
		PredictedUnits: r.PredictedUnits,
		RoundedBill:    r.RoundedBill,
		Month:          r.Month(),
		Bills:          r.Bills,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

// NewHAState builds the Home Assistant sensor state for a stored prediction
func NewHAState(r models.PredictionRecord) HAState {
	return HAState{
		State: fmt.Sprintf("%.2f", r.PredictedBill),
		Attributes: map[string]any{
			"predicted_units":     r.PredictedUnits,
			"rounded_bill":        r.RoundedBill,
			"month":               r.Month(),
			"unit_of_measurement": "INR",
			"friendly_name":       "Predicted Electricity Bill",
		},
	}
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
