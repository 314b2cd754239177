package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
	"github.com/codebuildervaibhav/voxscribe/internal/export"
)

// respondError converts any error into the {error, code} body with the
// status of its kind
func respondError(c *fiber.Ctx, err error, fallback string) error {
	ae := apperr.As(err, fallback)
	if ae.Kind == apperr.KindInternal {
		log.Printf("%s: %v", fallback, err)
	}
	if ae.RetryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(ae.RetryAfter.Seconds())))
	}
	return c.Status(ae.StatusCode()).JSON(fiber.Map{
		"error": ae.Message,
		"code":  ae.Code,
	})
}

func respondStatus(c *fiber.Ctx, status int, msg, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"code":  code,
	})
}

// sendDocument writes an export as a file attachment
func sendDocument(c *fiber.Ctx, doc *export.Document) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, doc.Disposition())
	return c.Status(fiber.StatusOK).Send(doc.Body)
}
