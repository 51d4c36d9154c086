package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/payment"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// PaymentController handles support payment endpoints.
type PaymentController struct {
	createOrderUseCase    *payment.CreateOrderUseCase
	verifyUseCase         *payment.VerifyPaymentUseCase
	listPaymentsUseCase   *payment.ListPaymentsUseCase
	listSupportersUseCase *payment.ListSupportersUseCase
}

// NewPaymentController creates a new payment controller instance.
func NewPaymentController(
	createOrderUseCase *payment.CreateOrderUseCase,
	verifyUseCase *payment.VerifyPaymentUseCase,
	listPaymentsUseCase *payment.ListPaymentsUseCase,
	listSupportersUseCase *payment.ListSupportersUseCase,
) *PaymentController {
	return &PaymentController{
		createOrderUseCase:    createOrderUseCase,
		verifyUseCase:         verifyUseCase,
		listPaymentsUseCase:   listPaymentsUseCase,
		listSupportersUseCase: listSupportersUseCase,
	}
}

// CreateOrder handles POST /payments/create-order requests. Anonymous
// supporters are allowed.
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	var req dto.CreateOrderRequest
	if ctx.Request.ContentLength != 0 {
		if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingPaymentFields)) {
			return
		}
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)

	output, err := c.createOrderUseCase.Execute(ctx.Request.Context(), payment.CreateOrderInput{
		UserID:        userID,
		SupporterName: req.SupporterName,
		Message:       req.Message,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToOrderResponse(output))
}

// Verify handles POST /payments/verify-payment requests.
func (c *PaymentController) Verify(ctx *gin.Context) {
	var req dto.VerifyPaymentRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingPaymentFields)) {
		return
	}

	paid, err := c.verifyUseCase.Execute(ctx.Request.Context(), payment.VerifyPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentResponse(paid))
}

// MyPayments handles GET /payments requests.
func (c *PaymentController) MyPayments(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	payments, err := c.listPaymentsUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// Supporters handles GET /payments/supporters requests.
func (c *PaymentController) Supporters(ctx *gin.Context) {
	supporters, err := c.listSupportersUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSupporterResponses(supporters))
}
