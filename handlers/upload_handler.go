package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

var uploadFolders = map[string]string{
	"reviews":  "supercar_rentals_reviews",
	"cars":     "supercar_rentals_cars",
	"profiles": "supercar_rentals_profiles",
}

type UploadHandler struct {
	cloudinaryURL string
}

func NewUploadHandler(cloudinaryURL string) *UploadHandler {
	return &UploadHandler{cloudinaryURL: cloudinaryURL}
}

// Signature creates a secure signature for a direct frontend upload into
// one of the known folders (?folder=reviews|cars|profiles).
func (h *UploadHandler) Signature(c *fiber.Ctx) error {
	folder, ok := uploadFolders[c.Query("folder", "reviews")]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Unknown upload folder"})
	}
	if folder == uploadFolders["cars"] {
		p, err := principal(c)
		if err != nil || !p.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden: Admin access required"})
		}
	}

	cld, err := cloudinary.NewFromURL(h.cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to initialize Cloudinary"})
	}

	parsedURL, err := url.Parse(h.cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to parse Cloudinary URL"})
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to prepare signature params"})
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to sign upload params"})
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"apiKey":    cld.Config.Cloud.APIKey,
		"cloudName": cld.Config.Cloud.CloudName,
		"folder":    folder,
	})
}
