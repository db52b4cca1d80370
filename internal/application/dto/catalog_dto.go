package dto

import (
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ClientRequest alta o modificación de un cliente. Email vacío se guarda como null.
type ClientRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ToClientResponse mapea entidad a DTO.
func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}

// CategoryRequest alta o modificación de una categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VendorRequest alta o modificación de un proveedor.
type VendorRequest struct {
	Name     string  `json:"name"`
	Document *string `json:"document"`
	Email    *string `json:"email"`
}

// VendorResponse salida de un proveedor.
type VendorResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Document *string `json:"document"`
	Email    *string `json:"email"`
}

// ToVendorResponse mapea entidad a DTO.
func ToVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{ID: v.ID, Name: v.Name, Document: v.Document, Email: v.Email}
}

// FileRequest registro de metadatos de un archivo adjunto.
type FileRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// FileResponse salida de un archivo registrado.
type FileResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToFileResponse mapea entidad a DTO.
func ToFileResponse(f *entity.File) FileResponse {
	return FileResponse{ID: f.ID, Name: f.Name, ContentType: f.ContentType, SizeBytes: f.SizeBytes, CreatedAt: f.CreatedAt}
}
