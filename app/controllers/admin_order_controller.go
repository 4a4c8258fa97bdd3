package controllers

import (
	"errors"
	"net/http"

	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/bind"
	"github.com/petpalace/petpalace/pkg/response"
)

type AdminOrderController struct {
	orders *services.OrderService
}

func NewAdminOrderController() *AdminOrderController {
	return &AdminOrderController{orders: services.NewOrderService()}
}

func (c *AdminOrderController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	orders, p, err := c.orders.List(r.Context(), bind.Query(r, "status", ""), page, perPage)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			response.Error(w, http.StatusBadRequest, "Unknown order status")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	response.Paginated(w, orders, p)
}

func (c *AdminOrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := c.orders.FindByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Order not found")
		return
	}
	response.Success(w, order)
}

type orderStatusInput struct {
	Status        string `json:"status" validate:"nullable,in=pending,confirmed,shipped,delivered,cancelled"`
	PaymentStatus string `json:"payment_status" validate:"nullable,in=unpaid,paid,refunded"`
}

// UpdateStatus moves an order through its lifecycle and notifies the admin
// feed.
func (c *AdminOrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in orderStatusInput
	if !bindJSON(w, r, &in) {
		return
	}
	if in.Status == "" && in.PaymentStatus == "" {
		response.Error(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), id, in.Status, in.PaymentStatus)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			response.Error(w, http.StatusBadRequest, "Unknown order status")
			return
		}
		writeRepoError(w, err, "Order not found")
		return
	}
	response.Success(w, order)
}
