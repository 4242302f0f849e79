package handlers

import (
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/server/http/dto"
)

func toClientResponse(c *model.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:           c.ID,
		Login:        c.Login,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		RepositoryID: c.RepositoryID,
		Admin:        c.Admin,
		Disabled:     c.Disabled,
	}
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Load:        p.Load,
		Available:   p.Available,
	}
}

func toRepositoryResponse(r model.Repository) dto.RepositoryResponse {
	return dto.RepositoryResponse{
		ID:        r.ID,
		Name:      r.Name,
		Opened:    r.Opened,
		Days:      formatDays(r.Days),
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func toBatchResponse(b model.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:       b.ID,
		Date:     b.Date,
		Cutoff:   b.Cutoff(),
		Capacity: b.Capacity,
		Opened:   b.Opened,
	}
}

func toBatchResponses(batches []model.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return out
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return dto.OrderResponse{
		ID:        o.ID,
		BatchID:   o.BatchID,
		BatchDate: o.BatchDate,
		Total:     o.Total,
		Settled:   o.Settled(),
		CreatedAt: o.CreatedAt,
		Lines:     lines,
	}
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		Amount:    p.Amount,
		Mode:      string(p.Mode),
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}

func toPlanResponse(plan *model.BatchPlan) dto.PlanResponse {
	resp := dto.PlanResponse{
		Summary: dto.PlanSummaryResponse{
			Batch:     toBatchResponse(plan.Summary.Batch),
			Load:      plan.Summary.Load,
			Remaining: plan.Summary.Remaining,
		},
		Products:     make([]dto.ProductTotalResponse, 0, len(plan.Products)),
		Repositories: make([]dto.RepositoryTotalResponse, 0, len(plan.Repositories)),
		Clients:      make([]dto.ClientTotalResponse, 0, len(plan.Clients)),
	}
	for _, p := range plan.Products {
		resp.Products = append(resp.Products, dto.ProductTotalResponse(p))
	}
	for _, r := range plan.Repositories {
		resp.Repositories = append(resp.Repositories, dto.RepositoryTotalResponse(r))
	}
	for _, cl := range plan.Clients {
		resp.Clients = append(resp.Clients, dto.ClientTotalResponse(cl))
	}
	return resp
}
