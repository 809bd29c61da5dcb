package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gauravsaxena1997/punit-portfolio/internal/contact"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint      = "https://api.resend.com/emails"
	DefaultFrom          = "onboarding@resend.dev"
	DefaultTo            = "gautty97@gmail.com"
	DefaultSubjectPrefix = "[Portfolio Contact]"
	DefaultTimeout       = 10 * time.Second
	// DefaultSendRate matches the provider's default quota of two requests per second.
	DefaultSendRate = 2.0

	maxResponseBytes = 1 << 20
)

// Config holds provider credentials and addresses.
type Config struct {
	APIKey        string
	From          string
	To            string
	SubjectPrefix string
	Endpoint      string
	Timeout       time.Duration
	SendRate      float64
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.From) == "" {
		c.From = DefaultFrom
	}
	if strings.TrimSpace(c.To) == "" {
		c.To = DefaultTo
	}
	if strings.TrimSpace(c.SubjectPrefix) == "" {
		c.SubjectPrefix = DefaultSubjectPrefix
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SendRate <= 0 {
		c.SendRate = DefaultSendRate
	}
	return c
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	ReplyTo string   `json:"reply_to"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ResendNotifier sends submissions through the Resend email API. Each call
// makes a single attempt bounded by Config.Timeout and is never retried.
type ResendNotifier struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewResendNotifier constructs a ResendNotifier. A nil client selects a
// default http.Client; the per-call timeout is applied through the context.
func NewResendNotifier(cfg Config, client *http.Client) *ResendNotifier {
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{}
	}
	burst := int(cfg.SendRate)
	if burst < 1 {
		burst = 1
	}
	return &ResendNotifier{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRate), burst),
	}
}

// Recipient returns the address submissions are delivered to.
func (n *ResendNotifier) Recipient() string {
	return n.cfg.To
}

// Configured reports whether an API key is present.
func (n *ResendNotifier) Configured() bool {
	return strings.TrimSpace(n.cfg.APIKey) != ""
}

func (n *ResendNotifier) Send(ctx context.Context, submission contact.Submission) (Result, error) {
	if !n.Configured() {
		log.Error("RESEND_API_KEY is not configured")
		return Result{Message: messageUnavailable + n.cfg.To}, ErrNotConfigured
	}

	htmlBody, errRender := RenderHTML(submission)
	if errRender != nil {
		return Result{Message: MessageSendError}, errRender
	}
	payload, errMarshal := json.Marshal(sendRequest{
		From:    n.cfg.From,
		To:      []string{n.cfg.To},
		Subject: fmt.Sprintf("%s New message from %s", n.cfg.SubjectPrefix, submission.Name),
		ReplyTo: submission.Email,
		HTML:    htmlBody,
		Text:    RenderText(submission),
	})
	if errMarshal != nil {
		return Result{Message: MessageSendError}, fmt.Errorf("encode email request: %w", errMarshal)
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	if errWait := n.limiter.Wait(ctx); errWait != nil {
		return Result{Message: MessageSendError}, &DeliveryError{Kind: classify(errWait), Err: errWait}
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewReader(payload))
	if errReq != nil {
		return Result{Message: MessageSendError}, &DeliveryError{Kind: KindDelivery, Err: errReq}
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, errDo := n.client.Do(req)
	if errDo != nil {
		return Result{Message: MessageSendError}, &DeliveryError{Kind: classify(errDo), Err: errDo}
	}
	defer resp.Body.Close()

	raw, errRead := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if errRead != nil {
		return Result{Message: MessageSendError}, &DeliveryError{Kind: classify(errRead), Err: errRead}
	}
	var body sendResponse
	errDecode := json.Unmarshal(raw, &body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(body.Message)
		log.WithFields(log.Fields{
			"status":   resp.StatusCode,
			"response": string(raw),
		}).Error("email provider rejected message")
		providerMessage := message
		if message == "" {
			message = MessageSendFailed
		}
		return Result{Message: message}, &DeliveryError{
			Kind:            KindDelivery,
			Status:          resp.StatusCode,
			ProviderMessage: providerMessage,
		}
	}

	if errDecode != nil {
		log.WithError(errDecode).Warn("email provider accepted message with an unreadable response")
	}
	return Result{Success: true, Message: MessageSent, ID: body.ID}, nil
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindDelivery
}
