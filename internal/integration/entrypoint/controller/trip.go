package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/trip"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// TripController handles transport trip endpoints.
type TripController struct {
	createUseCase        *trip.CreateTripUseCase
	listUseCase          *trip.ListTripsUseCase
	getUseCase           *trip.GetTripUseCase
	updateUseCase        *trip.UpdateTripUseCase
	deleteUseCase        *trip.DeleteTripUseCase
	uploadReceiptUseCase *trip.UploadReceiptUseCase
	deleteReceiptUseCase *trip.DeleteReceiptUseCase
	listReceiptsUseCase  *trip.ListReceiptsUseCase
}

// NewTripController creates a new trip controller instance.
func NewTripController(
	createUseCase *trip.CreateTripUseCase,
	listUseCase *trip.ListTripsUseCase,
	getUseCase *trip.GetTripUseCase,
	updateUseCase *trip.UpdateTripUseCase,
	deleteUseCase *trip.DeleteTripUseCase,
	uploadReceiptUseCase *trip.UploadReceiptUseCase,
	deleteReceiptUseCase *trip.DeleteReceiptUseCase,
	listReceiptsUseCase *trip.ListReceiptsUseCase,
) *TripController {
	return &TripController{
		createUseCase:        createUseCase,
		listUseCase:          listUseCase,
		getUseCase:           getUseCase,
		updateUseCase:        updateUseCase,
		deleteUseCase:        deleteUseCase,
		uploadReceiptUseCase: uploadReceiptUseCase,
		deleteReceiptUseCase: deleteReceiptUseCase,
		listReceiptsUseCase:  listReceiptsUseCase,
	}
}

// Create handles POST /trips requests.
func (c *TripController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingTripFields)) {
		return
	}

	created, err := c.createUseCase.Execute(ctx.Request.Context(), trip.CreateTripInput{
		UserID:          userID,
		VehicleNumber:   req.VehicleNumber,
		Route:           req.Route,
		MonthAndYear:    req.MonthAndYear,
		TripDate:        req.TripDate,
		TotalIncome:     *req.TotalIncome,
		Costs:           req.Costs(),
		DriverAllowance: req.DriverAllowance.Allowance(),
		PaymentStatus:   entity.TripPaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTripResponse(created))
}

// List handles GET /trips requests.
func (c *TripController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query dto.ListTripsQuery
	if !bindQuery(ctx, &query, string(domainerror.ErrCodeInvalidTripPaymentStatus)) {
		return
	}

	input := trip.ListTripsInput{
		UserID:        userID,
		VehicleNumber: query.VehicleNumber,
		Route:         query.Route,
		MonthAndYear:  query.MonthAndYear,
		Limit:         query.Limit,
		Offset:        query.Offset,
	}
	if query.PaymentStatus != "" {
		status := entity.TripPaymentStatus(query.PaymentStatus)
		input.PaymentStatus = &status
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TripListResponse{
		Trips: dto.ToTripResponses(output.Trips),
		Pagination: dto.Pagination{
			Total:  output.Total,
			Limit:  output.Limit,
			Offset: output.Offset,
		},
	})
}

// Get handles GET /trips/:id requests.
func (c *TripController) Get(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeTripNotFound))
	if !ok {
		return
	}

	found, err := c.getUseCase.Execute(ctx.Request.Context(), id, userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripResponse(found))
}

// Update handles PUT /trips/:id requests.
func (c *TripController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeTripNotFound))
	if !ok {
		return
	}

	var req dto.UpdateTripRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingTripFields)) {
		return
	}

	input := trip.UpdateTripInput{
		ID:              id,
		UserID:          userID,
		VehicleNumber:   req.VehicleNumber,
		Route:           req.Route,
		MonthAndYear:    req.MonthAndYear,
		TripDate:        req.TripDate,
		TotalIncome:     req.TotalIncome,
		Costs:           req.Patch(),
		DriverAllowance: req.DriverAllowance.Patch(),
	}
	if req.PaymentStatus != nil {
		status := entity.TripPaymentStatus(*req.PaymentStatus)
		input.PaymentStatus = &status
	}

	updated, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripResponse(updated))
}

// Delete handles DELETE /trips/:id requests.
func (c *TripController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeTripNotFound))
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), id, userID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Trip deleted"})
}

// UploadReceipt handles POST /trips/:id/receipts requests.
func (c *TripController) UploadReceipt(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeTripNotFound))
	if !ok {
		return
	}

	file, closeFile, ok := receiptUpload(ctx)
	if !ok {
		return
	}
	defer closeFile()

	added, err := c.uploadReceiptUseCase.Execute(ctx.Request.Context(), trip.UploadReceiptInput{
		TripID: id,
		UserID: userID,
		File:   file,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTripReceiptResponse(*added))
}

// DeleteReceipt handles DELETE /trips/:id/receipts/:receiptId requests.
func (c *TripController) DeleteReceipt(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeTripNotFound))
	if !ok {
		return
	}
	receiptID, ok := pathID(ctx, "receiptId", string(domainerror.ErrCodeTripReceiptNotFound))
	if !ok {
		return
	}

	if err := c.deleteReceiptUseCase.Execute(ctx.Request.Context(), id, receiptID, userID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Receipt deleted"})
}

// ListReceipts handles GET /trips/:id/receipts requests.
func (c *TripController) ListReceipts(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeTripNotFound))
	if !ok {
		return
	}

	receipts, err := c.listReceiptsUseCase.Execute(ctx.Request.Context(), id, userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripReceiptResponses(receipts))
}
