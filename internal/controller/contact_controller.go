package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gauravsaxena1997/punit-portfolio/internal/contact"
	"github.com/gauravsaxena1997/punit-portfolio/internal/mailer"
	"github.com/gauravsaxena1997/punit-portfolio/internal/middleware"
	"github.com/gauravsaxena1997/punit-portfolio/internal/ratelimit"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	MessageTooManyRequests = "Too many requests. Please try again later."
	MessageUnexpected      = "An unexpected error occurred. Please try again."

	// MaxBodyBytes bounds a submission body; the largest valid one is well under it.
	MaxBodyBytes = 64 << 10
)

type RateLimiter interface {
	Check(ctx context.Context, key string) (ratelimit.Result, error)
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type ContactController struct {
	router   *gin.RouterGroup
	limiter  RateLimiter
	notifier mailer.Notifier
}

func NewContactController(router *gin.RouterGroup, limiter RateLimiter, notifier mailer.Notifier) *ContactController {
	return &ContactController{
		router:   router,
		limiter:  limiter,
		notifier: notifier,
	}
}

func (cc *ContactController) SetupRoutes() {
	cc.router.POST("/contact", cc.submit)
}

func (cc *ContactController) submit(c *gin.Context) {
	ctx := c.Request.Context()
	clientKey := ratelimit.ClientKey(c.Request.Header)
	entry := log.WithFields(log.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"client":     clientKey,
	})

	limit, err := cc.limiter.Check(ctx, clientKey)
	if err != nil {
		entry.WithError(err).Warn("rate limit check failed, allowing submission")
	} else {
		writeRateLimitHeaders(c, limit)
		if limit.Limited {
			entry.Info("contact submission rate limited")
			c.JSON(http.StatusTooManyRequests, ContactResponse{Message: MessageTooManyRequests})
			return
		}
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var submission contact.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		entry.WithError(err).Error("failed to decode contact submission")
		c.JSON(http.StatusInternalServerError, ContactResponse{Message: MessageUnexpected})
		return
	}

	validated, err := contact.Validate(submission)
	if err != nil {
		var validationErr *contact.ValidationError
		if errors.As(err, &validationErr) {
			entry.WithField("reason", validationErr.Code).Info("contact submission rejected")
			c.JSON(http.StatusBadRequest, ContactResponse{Message: validationErr.Message})
			return
		}
		entry.WithError(err).Error("contact validation failed unexpectedly")
		c.JSON(http.StatusInternalServerError, ContactResponse{Message: MessageUnexpected})
		return
	}

	result, err := cc.notifier.Send(ctx, validated)
	if err != nil || !result.Success {
		entry.WithError(err).Error("failed to send contact email")
		message := result.Message
		if message == "" {
			message = MessageUnexpected
		}
		c.JSON(http.StatusInternalServerError, ContactResponse{Message: message})
		return
	}

	entry.WithField("email_id", result.ID).Info("contact email sent")
	c.JSON(http.StatusOK, ContactResponse{Success: true, Message: result.Message, ID: result.ID})
}

func writeRateLimitHeaders(c *gin.Context, limit ratelimit.Result) {
	c.Header("x-ratelimit-limit", fmt.Sprint(ratelimit.MaxRequests))
	c.Header("x-ratelimit-remaining", fmt.Sprint(limit.Remaining))
	c.Header("x-ratelimit-reset", fmt.Sprint(limit.ResetAt.Unix()))
	if limit.Limited {
		seconds := int(math.Ceil(limit.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", fmt.Sprint(seconds))
	}
}
