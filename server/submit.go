// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/poiesic/eventscribe/cms"
	"github.com/poiesic/eventscribe/core"
)

// submitEventRequest is the public event-submission body.
type submitEventRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	EndTime       string `json:"endTime"`
	Category      string `json:"category"`
	Price         string `json:"price"`
	TicketURL     string `json:"ticketUrl"`
	Organizer     string `json:"organizer"`
	ContactEmail  string `json:"contactEmail"`
	VenueID       string `json:"venueId"`
	ImageData     string `json:"imageData"`
	ImageFilename string `json:"imageFilename"`
	ImageAssetID  string `json:"imageAssetId"`
}

// submitResponse acknowledges an accepted submission.
type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// handleSubmitEvent accepts a public event submission. The document
// always enters the moderation queue as pending.
func (s *Server) handleSubmitEvent(c echo.Context) error {
	var req submitEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.VenueID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required field: venueId"})
	}
	if req.ContactEmail == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required field: contactEmail"})
	}

	event := core.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		EndTime:      req.EndTime,
		Category:     req.Category,
		Price:        req.Price,
		TicketURL:    req.TicketURL,
		Organizer:    req.Organizer,
		ContactEmail: req.ContactEmail,
	}
	if err := core.ValidateEvent(&event); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	doc := cms.NewEventDocument(event, req.VenueID)

	ctx := c.Request().Context()
	switch {
	case req.ImageAssetID != "":
		doc.Image = cms.NewImage(req.ImageAssetID, event.Title)
	case req.ImageData != "":
		assetID, err := s.uploadSubmittedImage(ctx, req.ImageData, req.ImageFilename, "event-image.jpg")
		if err != nil {
			return s.imageUploadError(c, err)
		}
		doc.Image = cms.NewImage(assetID, event.Title)
	}

	id, err := s.store.CreateEvent(ctx, doc)
	if err != nil {
		s.logger.Error("failed to create submitted event", "title", event.Title, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to submit event"})
	}

	return c.JSON(http.StatusOK, submitResponse{Success: true, ID: id})
}

// submitBusinessRequest is the public directory-submission body. Only
// the name is mandatory.
type submitBusinessRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Website       string `json:"website"`
	OpeningHours  string `json:"openingHours"`
	ImageData     string `json:"imageData"`
	ImageFilename string `json:"imageFilename"`
}

// handleSubmitBusiness accepts a public directory submission.
func (s *Server) handleSubmitBusiness(c echo.Context) error {
	var req submitBusinessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required field: name"})
	}

	business := core.Business{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		OpeningHours: req.OpeningHours,
	}
	if err := core.ValidateBusiness(&business); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	doc := cms.NewBusinessDocument(business, core.StatusPending)

	if req.ImageData != "" {
		assetID, err := s.uploadSubmittedImage(c.Request().Context(), req.ImageData, req.ImageFilename, "business-image.jpg")
		if err != nil {
			return s.imageUploadError(c, err)
		}
		doc.Image = cms.NewImage(assetID, business.Name)
	}

	id, err := s.store.CreateBusiness(c.Request().Context(), doc)
	if err != nil {
		s.logger.Error("failed to create submitted business", "name", business.Name, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to submit business"})
	}

	return c.JSON(http.StatusOK, submitResponse{Success: true, ID: id})
}

// errBadImageData marks an undecodable image payload.
var errBadImageData = errors.New("invalid image data")

// uploadSubmittedImage decodes a base64 image (with or without a data
// URL prefix) and uploads it as an asset.
func (s *Server) uploadSubmittedImage(ctx context.Context, imageData, filename, fallbackName string) (string, error) {
	payload := imageData
	if idx := strings.IndexByte(payload, ','); idx >= 0 {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errBadImageData
	}

	if filename == "" {
		filename = fallbackName
	}
	assetID, err := s.store.UploadImage(ctx, data, filename)
	if err != nil {
		s.logger.Error("failed to upload submitted image", "filename", filename, "err", err)
		return "", err
	}
	return assetID, nil
}

// imageUploadError writes the response for a failed submission image.
func (s *Server) imageUploadError(c echo.Context, err error) error {
	if errors.Is(err, errBadImageData) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image data"})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to upload image"})
}
