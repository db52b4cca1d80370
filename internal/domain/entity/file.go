package entity

import "time"

// File metadatos de un archivo adjunto.
type File struct {
	ID          int64
	Name        string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

func (f *File) Kind() Kind     { return KindFile }
func (f *File) PK() int64      { return f.ID }
func (f *File) SetPK(id int64) { f.ID = id }
func (f *File) Clone() Entity  { cp := *f; return &cp }

func (f *File) Fields() map[string]any {
	return map[string]any{
		"id":           f.ID,
		"name":         f.Name,
		"content_type": f.ContentType,
		"size_bytes":   f.SizeBytes,
		"created_at":   f.CreatedAt,
	}
}
