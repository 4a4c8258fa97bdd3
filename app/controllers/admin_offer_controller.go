package controllers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/response"
)

type AdminOfferController struct {
	offers *repositories.OfferRepository
}

func NewAdminOfferController() *AdminOfferController {
	return &AdminOfferController{offers: repositories.NewOfferRepository()}
}

type buyXGetYInput struct {
	BuyQuantity int      `json:"buy_quantity" validate:"required,min=1"`
	GetQuantity int      `json:"get_quantity" validate:"required,min=1"`
	ProductIDs  []string `json:"product_ids"`
}

type offerInput struct {
	Code         string         `json:"code" validate:"required,alpha_dash,min=3,max=32"`
	Description  string         `json:"description" validate:"nullable,max=500"`
	Type         string         `json:"type" validate:"required,in=percentage,amount"`
	Value        float64        `json:"value" validate:"required,gt=0"`
	MaxDiscount  float64        `json:"max_discount" validate:"gte=0"`
	MinCartValue float64        `json:"min_cart_value" validate:"gte=0"`
	StartDate    string         `json:"start_date" validate:"required,date"`
	ExpiryDate   string         `json:"expiry_date" validate:"required,date"`
	Status       string         `json:"status" validate:"nullable,in=active,inactive"`
	UsageLimit   int            `json:"usage_limit" validate:"gte=0"`
	BuyXGetY     *buyXGetYInput `json:"buy_x_get_y"`
}

func (in offerInput) model(w http.ResponseWriter) (models.Offer, bool) {
	start, err := parseInputDate(in.StartDate)
	if err != nil {
		response.ValidationError(w, map[string]string{"start_date": "The start_date is not a valid date."})
		return models.Offer{}, false
	}
	expiry, err := parseInputDate(in.ExpiryDate)
	if err != nil {
		response.ValidationError(w, map[string]string{"expiry_date": "The expiry_date is not a valid date."})
		return models.Offer{}, false
	}
	if !expiry.After(start) {
		response.ValidationError(w, map[string]string{"expiry_date": "The expiry_date must be after the start_date."})
		return models.Offer{}, false
	}

	status := in.Status
	if status == "" {
		status = models.OfferStatusActive
	}

	o := models.Offer{
		Code:         repositories.NormalizeCode(in.Code),
		Description:  in.Description,
		Type:         in.Type,
		Value:        in.Value,
		MaxDiscount:  in.MaxDiscount,
		MinCartValue: in.MinCartValue,
		StartDate:    start,
		ExpiryDate:   expiry,
		Status:       status,
		UsageLimit:   in.UsageLimit,
	}
	if in.BuyXGetY != nil {
		bxgy := &models.BuyXGetY{
			BuyQuantity: in.BuyXGetY.BuyQuantity,
			GetQuantity: in.BuyXGetY.GetQuantity,
		}
		for _, raw := range in.BuyXGetY.ProductIDs {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				response.ValidationError(w, map[string]string{"buy_x_get_y.product_ids": "The product ids must be valid object ids."})
				return models.Offer{}, false
			}
			bxgy.ProductIDs = append(bxgy.ProductIDs, id)
		}
		o.BuyXGetY = bxgy
	}
	return o, true
}

func parseInputDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, s)
}

func (c *AdminOfferController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	offers, p, err := c.offers.List(r.Context(), page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load offers")
		return
	}
	response.Paginated(w, offers, p)
}

func (c *AdminOfferController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	offer, err := c.offers.FindByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Offer not found")
		return
	}
	response.Success(w, offer)
}

func (c *AdminOfferController) Create(w http.ResponseWriter, r *http.Request) {
	var in offerInput
	if !bindJSON(w, r, &in) {
		return
	}
	offer, ok := in.model(w)
	if !ok {
		return
	}

	if err := c.offers.Create(r.Context(), &offer); err != nil {
		writeRepoError(w, err, "")
		return
	}
	response.Created(w, offer)
}

// Update replaces the offer definition but keeps the usage counter: editing
// a live coupon must not reopen consumed slots.
func (c *AdminOfferController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in offerInput
	if !bindJSON(w, r, &in) {
		return
	}
	offer, ok := in.model(w)
	if !ok {
		return
	}

	existing, err := c.offers.FindByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Offer not found")
		return
	}
	offer.ID = id
	offer.UsageCount = existing.UsageCount

	if err := c.offers.Update(r.Context(), &offer); err != nil {
		writeRepoError(w, err, "Offer not found")
		return
	}
	response.Success(w, offer)
}

func (c *AdminOfferController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.offers.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Offer not found")
		return
	}
	response.Message(w, "Offer deleted")
}
