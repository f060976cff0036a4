package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"keyiflimasa/internal/format"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

const ordersPathPrefix = "/app/api/orders"

type orderItemResponse struct {
	RecipeID   *uint           `json:"recipe_id"`
	RecipeName string          `json:"recipe_name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type orderResponse struct {
	ID              uint                `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	WhatsAppURL     string              `json:"whatsapp_url,omitempty"`
	CustomerAddress string              `json:"customer_address"`
	CustomerNote    string              `json:"customer_note"`
	DeliveryDate    string              `json:"delivery_date"`
	DeliveryTime    string              `json:"delivery_time"`
	Total           decimal.Decimal     `json:"total"`
	Status          models.OrderStatus  `json:"status"`
	StatusLabel     string              `json:"status_label"`
	NextStatus      models.OrderStatus  `json:"next_status,omitempty"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// OrderResource lists orders and moves them through the kitchen workflow.
func OrderResource(w http.ResponseWriter, r *http.Request) {
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}
	if orderService == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	identifier, rest := resourcePath(r.URL.Path, ordersPathPrefix)
	if identifier == "" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		listOrders(w, r, profileID)
		return
	}

	id, err := parseID(identifier)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if len(rest) == 1 && rest[0] == "advance" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		order, err := orderService.Advance(r.Context(), profileID, id)
		if err != nil {
			respondStoreError(w, r, err, "unable to advance order")
			return
		}
		writeJSON(w, http.StatusOK, projectOrder(*order))
		return
	}
	if len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := shopStore.GetOrder(r.Context(), profileID, id)
		if err != nil {
			respondStoreError(w, r, err, "unable to load order")
			return
		}
		writeJSON(w, http.StatusOK, projectOrder(*order))
	case http.MethodPut, http.MethodPatch:
		var payload orderStatusRequest
		if err := decodeJSON(r, &payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		status, ok := models.ParseOrderStatus(payload.Status)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "unknown status")
			return
		}
		order, err := orderService.UpdateStatus(r.Context(), profileID, id, status)
		if err != nil {
			respondStoreError(w, r, err, "unable to update order")
			return
		}
		writeJSON(w, http.StatusOK, projectOrder(*order))
	case http.MethodDelete:
		if err := shopStore.DeleteOrder(r.Context(), profileID, id); err != nil {
			respondStoreError(w, r, err, "unable to delete order")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listOrders(w http.ResponseWriter, r *http.Request, profileID uint) {
	query := r.URL.Query()
	filter := store.OrderFilter{WithItems: true}
	if value := query.Get("status"); value != "" {
		status, ok := models.ParseOrderStatus(value)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "unknown status")
			return
		}
		filter.Status = status
	}
	if value := query.Get("date"); value != "" {
		day, err := time.ParseInLocation(time.DateOnly, value, format.Location())
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.From, filter.To = day, day.AddDate(0, 0, 1)
	}
	if value := query.Get("limit"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	orders, err := shopStore.ListOrders(r.Context(), profileID, filter)
	if err != nil {
		applog.Error(r.Context(), "failed to list orders", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load orders")
		return
	}
	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, projectOrder(order))
	}
	writeJSON(w, http.StatusOK, responses)
}

func projectOrder(order models.Order) orderResponse {
	resp := orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		CustomerNote:    order.CustomerNote,
		DeliveryDate:    order.DeliveryDate,
		DeliveryTime:    order.DeliveryTime,
		Total:           order.Total,
		Status:          order.Status,
		StatusLabel:     order.Status.Label(),
		Items:           make([]orderItemResponse, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}
	if order.CustomerPhone != "" {
		resp.WhatsAppURL = format.WhatsAppURL(order.CustomerPhone)
	}
	if next, ok := models.NextStatus(order.Status); ok {
		resp.NextStatus = next
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			RecipeID:   item.RecipeID,
			RecipeName: item.RecipeName,
			Quantity:   item.Quantity,
			Price:      item.Price,
			LineTotal:  item.LineTotal(),
		})
	}
	return resp
}
