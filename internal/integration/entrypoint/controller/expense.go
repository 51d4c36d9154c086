package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/receipt"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// ReceiptFormField is the multipart field carrying a receipt upload.
const ReceiptFormField = "receipt"

// ExpenseController handles personal expense endpoints.
type ExpenseController struct {
	createUseCase        *expense.CreateExpenseUseCase
	listUseCase          *expense.ListExpensesUseCase
	getUseCase           *expense.GetExpenseUseCase
	updateUseCase        *expense.UpdateExpenseUseCase
	deleteUseCase        *expense.DeleteExpenseUseCase
	statisticsUseCase    *expense.GetStatisticsUseCase
	uploadReceiptUseCase *expense.UploadReceiptUseCase
	removeReceiptUseCase *expense.RemoveReceiptUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	createUseCase *expense.CreateExpenseUseCase,
	listUseCase *expense.ListExpensesUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
	statisticsUseCase *expense.GetStatisticsUseCase,
	uploadReceiptUseCase *expense.UploadReceiptUseCase,
	removeReceiptUseCase *expense.RemoveReceiptUseCase,
) *ExpenseController {
	return &ExpenseController{
		createUseCase:        createUseCase,
		listUseCase:          listUseCase,
		getUseCase:           getUseCase,
		updateUseCase:        updateUseCase,
		deleteUseCase:        deleteUseCase,
		statisticsUseCase:    statisticsUseCase,
		uploadReceiptUseCase: uploadReceiptUseCase,
		removeReceiptUseCase: removeReceiptUseCase,
	}
}

// Create handles POST /expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingExpenseFields)) {
		return
	}

	input := expense.CreateExpenseInput{
		UserID:             userID,
		Amount:             *req.Amount,
		Category:           entity.ExpenseCategory(req.Category),
		Subcategory:        req.Subcategory,
		Description:        req.Description,
		Date:               req.Date,
		PaymentMethod:      entity.PaymentMethod(req.PaymentMethod),
		Tags:               req.Tags,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: frequency(req.RecurringFrequency),
	}

	created, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(created))
}

// List handles GET /expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query dto.ListExpensesQuery
	if !bindQuery(ctx, &query, string(domainerror.ErrCodeInvalidExpenseCategory)) {
		return
	}

	input := expense.ListExpensesInput{
		UserID: userID,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Category != "" {
		category := entity.ExpenseCategory(query.Category)
		input.Category = &category
	}

	var err error
	if input.StartDate, err = parseDate(query.StartDate, false); err != nil {
		invalidDate(ctx, "startDate")
		return
	}
	if input.EndDate, err = parseDate(query.EndDate, true); err != nil {
		invalidDate(ctx, "endDate")
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ExpenseListResponse{
		Expenses: dto.ToExpenseResponses(output.Expenses),
		Pagination: dto.Pagination{
			Total:  output.Total,
			Limit:  output.Limit,
			Offset: output.Offset,
		},
	})
}

// Get handles GET /expenses/:id requests.
func (c *ExpenseController) Get(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeExpenseNotFound))
	if !ok {
		return
	}

	found, err := c.getUseCase.Execute(ctx.Request.Context(), id, userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(found))
}

// Update handles PUT /expenses/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeExpenseNotFound))
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingExpenseFields)) {
		return
	}

	input := expense.UpdateExpenseInput{
		ID:                 id,
		UserID:             userID,
		Amount:             req.Amount,
		Subcategory:        req.Subcategory,
		Description:        req.Description,
		Date:               req.Date,
		Tags:               req.Tags,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: frequency(req.RecurringFrequency),
	}
	if req.Category != nil {
		category := entity.ExpenseCategory(*req.Category)
		input.Category = &category
	}
	if req.PaymentMethod != nil {
		method := entity.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	updated, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(updated))
}

// Delete handles DELETE /expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeExpenseNotFound))
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), id, userID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Expense deleted"})
}

// Statistics handles GET /expenses/statistics requests.
func (c *ExpenseController) Statistics(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query dto.StatisticsQuery
	if !bindQuery(ctx, &query, string(domainerror.ErrCodeInvalidStatsPeriod)) {
		return
	}

	stats, err := c.statisticsUseCase.Execute(ctx.Request.Context(), expense.GetStatisticsInput{
		UserID: userID,
		Month:  query.Month,
		Year:   query.Year,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatisticsResponse(stats))
}

// UploadReceipt handles POST /expenses/:id/receipt requests.
func (c *ExpenseController) UploadReceipt(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeExpenseNotFound))
	if !ok {
		return
	}

	file, closeFile, ok := receiptUpload(ctx)
	if !ok {
		return
	}
	defer closeFile()

	updated, err := c.uploadReceiptUseCase.Execute(ctx.Request.Context(), expense.UploadReceiptInput{
		ExpenseID: id,
		UserID:    userID,
		File:      file,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(updated))
}

// RemoveReceipt handles DELETE /expenses/:id/receipt requests.
func (c *ExpenseController) RemoveReceipt(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", string(domainerror.ErrCodeExpenseNotFound))
	if !ok {
		return
	}

	updated, err := c.removeReceiptUseCase.Execute(ctx.Request.Context(), id, userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(updated))
}

func frequency(v *string) *entity.RecurringFrequency {
	if v == nil || *v == "" {
		return nil
	}
	f := entity.RecurringFrequency(*v)
	return &f
}

// parseDate accepts YYYY-MM-DD or RFC 3339. A bare end date covers the whole
// day.
func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}

func invalidDate(ctx *gin.Context, field string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: field + " must be YYYY-MM-DD or RFC 3339",
		Code:  string(domainerror.ErrCodeInvalidDateRange),
	})
}

// receiptUpload opens the multipart receipt file. The returned func closes it.
func receiptUpload(ctx *gin.Context) (receipt.File, func(), bool) {
	header, err := ctx.FormFile(ReceiptFormField)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: domainerror.ErrMissingReceiptFile.Error(),
			Code:  string(domainerror.ErrCodeMissingReceiptFile),
		})
		return receipt.File{}, nil, false
	}

	f, err := header.Open()
	if err != nil {
		handleError(ctx, err)
		return receipt.File{}, nil, false
	}

	return receipt.File{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     f,
	}, func() { _ = f.Close() }, true
}
