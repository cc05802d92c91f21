package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/user"
	"artSparkAPI/services"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
)

const (
	maxWebhookBytes = int64(65536)

	purchaseExtraAttempts = "extra_attempts"
)

var errBadSignature = errors.New("invalid webhook signature")

type WebhookHandler struct {
	userService  *services.UserService
	clerkSecret  string
	stripeSecret string
}

func NewWebhookHandler(userService *services.UserService, clerkSecret, stripeSecret string) *WebhookHandler {
	return &WebhookHandler{
		userService:  userService,
		clerkSecret:  clerkSecret,
		stripeSecret: stripeSecret,
	}
}

type clerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clerkUserData struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ImageURL        string `json:"image_url"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (d clerkUserData) displayName() string {
	if d.Username != "" {
		return d.Username
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d clerkUserData) photoURL() string {
	if d.ImageURL != "" {
		return d.ImageURL
	}
	return d.ProfileImageURL
}

// POST /webhooks/clerk
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	if h.clerkSecret == "" {
		logger.Log.Error("CLERK_WEBHOOK_SECRET is not set")
		respondWithError(w, http.StatusInternalServerError, "Webhook not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if err := verifySvixSignature(h.clerkSecret, r.Header, body); err != nil {
		logger.Log.Warn("clerk webhook rejected", zap.Error(err))
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	switch event.Type {
	case "user.created", "user.updated":
		var data clerkUserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			respondWithError(w, http.StatusBadRequest, "Error parsing user data")
			return
		}
		err := h.userService.UpsertIdentity(ctx, &user.UpsertIdentityRequest{
			UID:         data.ID,
			DisplayName: data.displayName(),
			PhotoURL:    data.photoURL(),
		})
		if err != nil {
			logger.Log.Error("failed to sync clerk user", zap.String("event", event.Type), zap.String("user_id", data.ID), zap.Error(err))
			respondWithServiceError(w, r, err)
			return
		}
		logger.Log.Info("clerk user synced", zap.String("event", event.Type), zap.String("user_id", data.ID))

	default:
		logger.Log.Debug("unhandled clerk webhook event", zap.String("event", event.Type))
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// verifySvixSignature checks the svix-id, svix-timestamp and svix-signature
// headers Clerk sends against a whsec_ signing secret.
func verifySvixSignature(secret string, header http.Header, body []byte) error {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return fmt.Errorf("load webhook secret: %w", err)
	}
	if err := wh.Verify(body, header); err != nil {
		return fmt.Errorf("%w: %v", errBadSignature, err)
	}
	return nil
}

// POST /webhooks/stripe
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.stripeSecret == "" {
		logger.Log.Error("STRIPE_WEBHOOK_SECRET is not set")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.stripeSecret)
	if err != nil {
		logger.Log.Warn("stripe webhook rejected", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		err = h.handleCheckoutSessionCompleted(ctx, &session)

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		err = h.handleSubscriptionChanged(ctx, &sub)

	default:
		logger.Log.Debug("unhandled stripe webhook event", zap.String("event", string(event.Type)))
	}

	if err != nil {
		logger.Log.Error("failed to process stripe webhook",
			zap.String("event", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		// Stripe retries 5xx; a payload that can never apply is acknowledged.
		if errors.Is(err, services.ErrInvalidArgument) || errors.Is(err, services.ErrUnauthenticated) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	uid := session.Metadata["user_id"]
	if uid == "" {
		return fmt.Errorf("%w: no user_id in session metadata", services.ErrInvalidArgument)
	}

	if session.Metadata["purchase"] == purchaseExtraAttempts {
		quantity := 1
		if raw := session.Metadata["quantity"]; raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%w: bad quantity %q", services.ErrInvalidArgument, raw)
			}
			quantity = n
		}
		_, err := h.userService.AddExtraAttempts(ctx, uid, quantity)
		return err
	}

	if session.Mode != stripe.CheckoutSessionModeSubscription {
		return nil
	}

	// The period end arrives with the customer.subscription.* event that
	// Stripe sends alongside checkout completion.
	return h.userService.UpdateSubscription(ctx, user.SubscriptionUpdate{
		UID:  uid,
		Plan: user.PlanPro,
	})
}

func (h *WebhookHandler) handleSubscriptionChanged(ctx context.Context, sub *stripe.Subscription) error {
	uid := sub.Metadata["user_id"]
	if uid == "" {
		return fmt.Errorf("%w: no user_id in subscription metadata", services.ErrInvalidArgument)
	}

	upd := user.SubscriptionUpdate{UID: uid, Plan: user.PlanFree}
	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		upd.Plan = user.PlanPro
		if sub.CurrentPeriodEnd > 0 {
			renews := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			upd.RenewsAt = &renews
		}
	}
	return h.userService.UpdateSubscription(ctx, upd)
}
