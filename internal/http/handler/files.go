package handler

import (
	"errors"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"

	"famdrop/internal/model"
	"famdrop/internal/service"
)

// listResponse wraps the file listing; the UI expects {"files": [...]}.
type listResponse struct {
	Files []model.File `json:"files"`
}

// deleteResponse confirms a removal.
type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadFile handles POST /api/upload (multipart/form-data, field name: file).
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no file received")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}

		file, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoFile):
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no file received")
			case errors.Is(err, service.ErrFileTooLarge):
				return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "file too large")
			case errors.Is(err, service.ErrTypeNotAllowed):
				return writeError(c, fiber.StatusBadRequest, "FILE_TYPE_NOT_ALLOWED", "file type not allowed")
			}
			log.Printf("upload failed: %v", err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "upload failed")
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

// ListFiles handles GET /api/files. A missing upload directory lists as
// empty, never as an error.
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.List(c.UserContext())
		if err != nil {
			log.Printf("list files failed: %v", err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to list files")
		}
		if files == nil {
			files = []model.File{}
		}
		return c.JSON(listResponse{Files: files})
	}
}

// DeleteFile handles DELETE /api/upload/:id.
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		file, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			log.Printf("delete failed: %v", err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "delete failed")
		}
		return c.JSON(deleteResponse{
			Success: true,
			Message: fmt.Sprintf("%s deleted (%s)", file.FileName, humanize.IBytes(uint64(file.Size))),
		})
	}
}

// ServeFile handles GET /uploads/:filename, streaming stored bytes with the
// recorded content type.
func ServeFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("filename")

		rc, file, err := svc.Open(c.UserContext(), name)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			log.Printf("serve file failed: %v", err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to read file")
		}

		c.Set(fiber.HeaderContentType, file.ContentType)
		return c.SendStream(rc, int(file.Size))
	}
}
