package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/validation"
)

// handleError maps coded domain errors to HTTP responses. Anything else is
// logged and answered with a generic 500.
func handleError(ctx *gin.Context, err error) {
	var (
		authErr    *domainerror.AuthError
		expenseErr *domainerror.ExpenseError
		tripErr    *domainerror.TripError
		budgetErr  *domainerror.BudgetError
		paymentErr *domainerror.PaymentError
		receiptErr *domainerror.ReceiptError
		reportErr  *domainerror.ReportError
	)

	switch {
	case errors.As(err, &authErr):
		writeCoded(ctx, statusForAuthError(authErr.Code), authErr.Message, string(authErr.Code))
	case errors.As(err, &expenseErr):
		writeCoded(ctx, statusForExpenseError(expenseErr.Code), expenseErr.Message, string(expenseErr.Code))
	case errors.As(err, &tripErr):
		writeCoded(ctx, statusForTripError(tripErr.Code), tripErr.Message, string(tripErr.Code))
	case errors.As(err, &budgetErr):
		writeCoded(ctx, statusForBudgetError(budgetErr.Code), budgetErr.Message, string(budgetErr.Code))
	case errors.As(err, &paymentErr):
		writeCoded(ctx, statusForPaymentError(paymentErr.Code), paymentErr.Message, string(paymentErr.Code))
	case errors.As(err, &receiptErr):
		writeCoded(ctx, statusForReceiptError(receiptErr.Code), receiptErr.Message, string(receiptErr.Code))
	case errors.As(err, &reportErr):
		writeCoded(ctx, statusForReportError(reportErr.Code), reportErr.Message, string(reportErr.Code))
	default:
		slog.Error("Unhandled request error", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func writeCoded(ctx *gin.Context, status int, message, code string) {
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", ctx.FullPath(), "code", code, "error", message)
	}
	ctx.JSON(status, dto.ErrorResponse{Error: message, Code: code})
}

// bindJSON binds the body into req and answers 400 on failure.
func bindJSON(ctx *gin.Context, req interface{}, code string) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    code,
			Details: validation.Message(err),
		})
		return false
	}
	return true
}

// bindQuery binds the query string into req and answers 400 on failure.
func bindQuery(ctx *gin.Context, req interface{}, code string) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid query parameters",
			Code:    code,
			Details: validation.Message(err),
		})
		return false
	}
	return true
}

// currentUser returns the authenticated user id or answers 401.
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a uuid path parameter. A malformed id is answered as not
// found with the given code.
func pathID(ctx *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Resource not found",
			Code:  code,
		})
		return uuid.Nil, false
	}
	return id, true
}

func statusForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidAccountType,
		domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidResetOTP:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func statusForExpenseError(code domainerror.ExpenseErrorCode) int {
	if code == domainerror.ErrCodeExpenseNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func statusForTripError(code domainerror.TripErrorCode) int {
	switch code {
	case domainerror.ErrCodeTripNotFound, domainerror.ErrCodeTripReceiptNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func statusForBudgetError(code domainerror.BudgetErrorCode) int {
	if code == domainerror.ErrCodeBudgetNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func statusForPaymentError(code domainerror.PaymentErrorCode) int {
	switch code {
	case domainerror.ErrCodePaymentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodePaymentAlreadyVerified:
		return http.StatusConflict
	case domainerror.ErrCodePaymentGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func statusForReceiptError(code domainerror.ReceiptErrorCode) int {
	switch code {
	case domainerror.ErrCodeReceiptTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeUnsupportedReceiptType:
		return http.StatusUnsupportedMediaType
	case domainerror.ErrCodeMissingReceiptFile:
		return http.StatusBadRequest
	case domainerror.ErrCodeReceiptNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func statusForReportError(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeReportBatchInProgress:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidReportKind, domainerror.ErrCodeInvalidPeriod:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCronSecret:
		return http.StatusForbidden
	case domainerror.ErrCodeNarrativeUnavailable,
		domainerror.ErrCodeNarrativeTimeout,
		domainerror.ErrCodeNarrativeRateLimited,
		domainerror.ErrCodeNarrativeAuth,
		domainerror.ErrCodeNarrativeEmpty,
		domainerror.ErrCodeNarrativeFailed,
		domainerror.ErrCodeReportSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
