package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// Base subject constants (without prefix)
const (
	baseSubjectReport = "diagnostics.report"
)

// Client publishes diagnostic reports to NATS
type Client struct {
	conn      *nats.Conn
	logger    hclog.Logger
	prefix    string // Subject prefix for namespace isolation (e.g., "ops" -> "ops.diagnostics.report.<id>")
	jetStream bool
}

// Option configures a Client
type Option func(*Client)

// WithJetStream publishes through JetStream instead of core NATS.
// The target stream must already exist.
func WithJetStream() Option {
	return func(c *Client) {
		c.jetStream = true
	}
}

// NewClientWithPrefix connects to NATS. When nkeySeed is set the connection
// authenticates with that NKey; otherwise it connects anonymously.
func NewClientWithPrefix(servers string, nkeySeed string, prefix string, logger hclog.Logger, opts ...Option) (*Client, error) {
	if servers == "" {
		return nil, fmt.Errorf("NATS servers cannot be empty")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	connOpts := []nats.Option{
		nats.Name("opscheck"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}

	if nkeySeed != "" {
		authOpt, err := nkeyOption(nkeySeed)
		if err != nil {
			return nil, err
		}
		connOpts = append(connOpts, authOpt)
	}

	nc, err := nats.Connect(servers, connOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Debug("connected to NATS", "servers", servers, "prefix", prefix)

	c := &Client{
		conn:   nc,
		logger: logger,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// nkeyOption builds the NKey challenge-response authenticator from a seed
func nkeyOption(seed string) (nats.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NKey seed: %w", err)
	}

	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}

	return nats.Nkey(pub, func(nonce []byte) ([]byte, error) {
		sig, err := kp.Sign(nonce)
		if err != nil {
			return nil, fmt.Errorf("failed to sign nonce: %w", err)
		}
		return sig, nil
	}), nil
}

// ReportSubject returns the subject a deployment's report is published on
func ReportSubject(prefix, deploymentID string) string {
	subject := fmt.Sprintf("%s.%s", baseSubjectReport, deploymentID)
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

// PublishReport publishes a diagnostic report on its deployment-specific subject
func (c *Client) PublishReport(payload ReportPayload) (string, error) {
	if payload.DeploymentID == "" {
		return "", fmt.Errorf("report payload has no deployment ID")
	}
	subject := ReportSubject(c.prefix, payload.DeploymentID)
	return subject, c.publish(subject, payload)
}

// publish marshals and sends the payload, then flushes the connection
func (c *Client) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if c.jetStream {
		js, err := c.conn.JetStream()
		if err != nil {
			return fmt.Errorf("failed to get JetStream context: %w", err)
		}
		if _, err := js.Publish(subject, data); err != nil {
			c.logger.Error("Failed to publish report", "subject", subject, "error", err)
			return fmt.Errorf("failed to publish to %s: %w", subject, err)
		}
	} else if err := c.conn.Publish(subject, data); err != nil {
		c.logger.Error("Failed to publish report", "subject", subject, "error", err)
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	// Flush so the report leaves before the CLI exits
	if err := c.conn.Flush(); err != nil {
		c.logger.Warn("Failed to flush NATS connection", "subject", subject, "error", err)
	}

	c.logger.Debug("Published report", "subject", subject, "bytes", len(data))
	return nil
}

// Close drains pending messages and closes the connection
func (c *Client) Close() error {
	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
			return err
		}
		c.logger.Debug("NATS connection closed")
	}
	return nil
}
