package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-admin/internal/cache"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/models"
	"github.com/BruksfildServices01/clinic-admin/internal/payments"
	ucMembership "github.com/BruksfildServices01/clinic-admin/internal/usecase/membership"
)

// --------- Requests ---------

type MembershipRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=255"`
	Perks       []string `json:"perks"`
}

type FeeRequest struct {
	MembershipID uint    `json:"membership_id" binding:"required"`
	RenewalType  string  `json:"renewal_type" binding:"required,renewal"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Currency     string  `json:"currency" binding:"omitempty,len=3"`
}

type SubscribeRequest struct {
	FeeID uint `json:"fee_id" binding:"required"`
}

type RecordTransactionRequest struct {
	SubscriptionID uint   `json:"subscription_id" binding:"required"`
	ProviderRef    string `json:"provider_ref" binding:"max=100"`
}

type paymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// --------- Resources ---------

func NewMembershipResource(db *gorm.DB, c cache.Cache) *Resource[models.Membership, MembershipRequest] {
	r := NewResource(db, "membership", func(req *MembershipRequest, m *models.Membership) {
		m.Name = strings.TrimSpace(req.Name)
		m.Description = req.Description
		m.Perks = req.Perks
	})
	r.Order = "name ASC"
	r.Preload = []string{"Fees"}
	r.Search = []string{"name"}
	r.Changed = invalidate(c, cacheKeyMemberships)
	return r
}

func NewFeeResource(db *gorm.DB, c cache.Cache) *Resource[models.MembershipFee, FeeRequest] {
	r := NewResource(db, "fee", func(req *FeeRequest, m *models.MembershipFee) {
		m.MembershipID = req.MembershipID
		m.RenewalType = req.RenewalType
		m.Amount = req.Amount
		m.Currency = strings.ToUpper(req.Currency)
		if m.Currency == "" {
			m.Currency = "USD"
		}
	})
	r.Order = "membership_id ASC, renewal_type ASC"
	r.Filter = func(c *gin.Context, q *gorm.DB) *gorm.DB {
		if id := queryID(c, "membership_id"); id != nil {
			q = q.Where("membership_id = ?", *id)
		}
		return q
	}
	r.Changed = invalidate(c, cacheKeyMemberships)
	return r
}

// ======================================================
// HANDLER
// ======================================================

type MembershipHandler struct {
	db *gorm.DB

	subscribe *ucMembership.Subscribe
	record    *ucMembership.RecordPayment
	checkout  *ucMembership.Checkout
	notify    *ucMembership.HandlePaymentNotification
}

func NewMembershipHandler(
	db *gorm.DB,
	subscribe *ucMembership.Subscribe,
	record *ucMembership.RecordPayment,
	checkout *ucMembership.Checkout,
	notify *ucMembership.HandlePaymentNotification,
) *MembershipHandler {
	return &MembershipHandler{
		db:        db,
		subscribe: subscribe,
		record:    record,
		checkout:  checkout,
		notify:    notify,
	}
}

// --------------------------------------------------
// Caller's subscription
// --------------------------------------------------

func (h *MembershipHandler) MySubscription(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	var sub models.MembershipSubscription
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Membership").
		Preload("Fee").
		Where("user_id = ?", claims.UserID).
		First(&sub).Error; err != nil {

		httpresp.Error(c, "get subscription", err)
		return
	}
	httpresp.OK(c, sub)
}

func (h *MembershipHandler) Subscribe(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	sub, err := h.subscribe.Execute(c.Request.Context(), claims.UserID, req.FeeID)
	if err != nil {
		httpresp.Error(c, "subscribe", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "subscription saved", sub)
}

func (h *MembershipHandler) Checkout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	out, err := h.checkout.Execute(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, payments.ErrDisabled) {
			httpresp.Fail(c, http.StatusServiceUnavailable, "online payments are disabled")
			return
		}
		httpresp.Error(c, "checkout", err)
		return
	}
	httpresp.Success(c, http.StatusOK, "", out)
}

// --------------------------------------------------
// Admin listings
// --------------------------------------------------

func (h *MembershipHandler) ListSubscriptions(c *gin.Context) {
	p := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.MembershipSubscription{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if id := queryID(c, "membership_id"); id != nil {
		q = q.Where("membership_id = ?", *id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httpresp.Error(c, "count subscriptions", err)
		return
	}

	var subs []models.MembershipSubscription
	if err := q.
		Preload("User").
		Preload("Membership").
		Preload("Fee").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&subs).Error; err != nil {

		httpresp.Error(c, "list subscriptions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"data":  subs,
	})
}

func (h *MembershipHandler) ListTransactions(c *gin.Context) {
	p := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Transaction{})
	if id := queryID(c, "subscription_id"); id != nil {
		q = q.Where("subscription_id = ?", *id)
	}
	if provider := c.Query("provider"); provider != "" {
		q = q.Where("provider = ?", provider)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httpresp.Error(c, "count transactions", err)
		return
	}

	var txns []models.Transaction
	if err := q.
		Order("paid_at DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&txns).Error; err != nil {

		httpresp.Error(c, "list transactions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
		"data":  txns,
	})
}

// RecordTransaction stores a manual payment on behalf of a subscriber.
func (h *MembershipHandler) RecordTransaction(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.InvalidInputs(c)
		return
	}

	txn, err := h.record.Execute(c.Request.Context(), ucMembership.RecordPaymentInput{
		SubscriptionID: req.SubscriptionID,
		ProviderRef:    req.ProviderRef,
		ActorID:        &claims.UserID,
	})
	if err != nil {
		httpresp.Error(c, "record transaction", err)
		return
	}
	httpresp.Success(c, http.StatusCreated, "transaction recorded", txn)
}

// --------------------------------------------------
// Provider webhook
// --------------------------------------------------

// PaymentWebhook accepts both the query form (?type=payment&data.id=)
// and the JSON body form of the provider notification. It answers 200
// for anything it chooses to ignore so the provider stops retrying.
func (h *MembershipHandler) PaymentWebhook(c *gin.Context) {
	kind := c.Query("type")
	if kind == "" {
		kind = c.Query("topic")
	}
	id := c.Query("data.id")
	if id == "" {
		id = c.Query("id")
	}

	if id == "" {
		var body paymentNotification
		if err := c.ShouldBindJSON(&body); err == nil {
			kind, id = body.Type, body.Data.ID
		}
	}

	if kind != "payment" || id == "" {
		httpresp.Success(c, http.StatusOK, "ignored", nil)
		return
	}

	txn, err := h.notify.Execute(c.Request.Context(), id)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeAny) {
			httpresp.Success(c, http.StatusOK, "ignored", nil)
			return
		}
		httpresp.Error(c, "payment webhook", err)
		return
	}
	if txn == nil {
		httpresp.Success(c, http.StatusOK, "pending", nil)
		return
	}
	httpresp.Success(c, http.StatusOK, "recorded", gin.H{"transaction_id": txn.ID})
}
