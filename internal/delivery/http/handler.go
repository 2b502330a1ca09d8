package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grocyscan/backend/internal/domain"
)

// ScanUsecase is the scanning side used by the handlers
type ScanUsecase interface {
	ScanImage(ctx context.Context, image []byte) (domain.ReceiptParseResult, error)
	Products(ctx context.Context) ([]domain.CatalogEntry, error)
	Mappings() map[string]string
}

// BookingUsecase books reviewed items
type BookingUsecase interface {
	Book(ctx context.Context, request *domain.BookingRequest) (*domain.BookingSummary, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scan           ScanUsecase
	booking        BookingUsecase
	maxUploadBytes int64
}

// NewHandler creates a new HTTP handler. Nil usecases make their endpoints answer 501.
func NewHandler(scan ScanUsecase, booking BookingUsecase, maxUploadBytes int64) *Handler {
	return &Handler{
		scan:           scan,
		booking:        booking,
		maxUploadBytes: maxUploadBytes,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grocyscan-backend",
		"version": "1.0.0",
	})
}

// ListProducts returns the Grocy product catalog
func (h *Handler) ListProducts(c *gin.Context) {
	if h.scan == nil {
		notConfigured(c, "scan")
		return
	}

	products, err := h.scan.Products(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] [%s] Error loading products: %v", requestID(c), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// UploadReceipt runs OCR on the uploaded receipt image and returns the resolved items
func (h *Handler) UploadReceipt(c *gin.Context) {
	if h.scan == nil {
		notConfigured(c, "scan")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "receipt image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}

	result, err := h.scan.ScanImage(c.Request.Context(), image)
	if err != nil {
		log.Printf("[HTTP] [%s] Scan of %q failed: %v", requestID(c), fileHeader.Filename, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// BookItems books the reviewed items into Grocy and learns their mappings
func (h *Handler) BookItems(c *gin.Context) {
	if h.booking == nil {
		notConfigured(c, "booking")
		return
	}

	var request domain.BookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking request: " + err.Error()})
		return
	}

	summary, err := h.booking.Book(c.Request.Context(), &request)
	if err != nil {
		log.Printf("[HTTP] [%s] Booking for %q failed: %v", requestID(c), request.Shop, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListMappings returns every learned OCR name -> product id mapping
func (h *Handler) ListMappings(c *gin.Context) {
	if h.scan == nil {
		notConfigured(c, "scan")
		return
	}
	c.JSON(http.StatusOK, h.scan.Mappings())
}

func notConfigured(c *gin.Context, name string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": name + " service not configured",
	})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOCRFailure),
		errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrGrocyAPIFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
