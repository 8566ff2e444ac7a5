package httpapi

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"sosflow/auth"
	"sosflow/listview"
	"sosflow/report"
	"sosflow/settings"
)

type errorResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// recordJSON is the presentation shape of a report. mapCoordinates and photo
// keep the original wire conventions so the deployed admin panel keeps
// working against this service.
type recordJSON struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Telephone      string `json:"telephone"`
	Comments       string `json:"comments"`
	MapCoordinates string `json:"mapCoordinates"`
	Photo          string `json:"photo"`
	Approved       bool   `json:"approved"`
	IsRemoved      bool   `json:"isRemoved"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func toRecordJSON(rec report.Record) (recordJSON, error) {
	wire, err := report.EncodePayload(report.CreateParams{
		Name:        rec.Name,
		Telephone:   rec.Telephone,
		Comments:    rec.Comments,
		Coordinates: rec.Coordinates,
		PhotoRef:    rec.PhotoRef,
	})
	if err != nil {
		return recordJSON{}, err
	}
	return recordJSON{
		ID:             rec.ID,
		Name:           wire.Name,
		Telephone:      wire.Telephone,
		Comments:       wire.Comments,
		MapCoordinates: wire.MapCoordinates,
		Photo:          wire.Photo,
		Approved:       rec.Approved,
		IsRemoved:      rec.IsRemoved,
		CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      rec.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Server) handleCreateReport(c *fiber.Ctx) error {
	var p report.Payload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON", "")
	}

	params, err := report.DecodePayload(p)
	if err != nil {
		return badReq(c, "invalid mapCoordinates", "")
	}

	// Old clients send the photo inline as a base64 data URI; persist it to
	// the media store and keep only the ref on the record.
	if params.PhotoRef != nil && s.media != nil {
		if data, ok := decodeDataURI(*params.PhotoRef); ok {
			ref, err := s.media.Save(c.Context(), data)
			if err != nil {
				return badReq(c, "unreadable photo data", "")
			}
			params.PhotoRef = &ref
		}
	}

	rec, err := s.reports.Create(c.Context(), params)
	if err != nil {
		var verr *report.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(errorResp{
				OK:    false,
				Error: s.validationMessage(verr),
				Field: string(verr.Field),
			})
		}
		return serverErr(c, s.log, err)
	}

	out, err := toRecordJSON(rec)
	if err != nil {
		return serverErr(c, s.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (s *Server) handleListReports(c *fiber.Ctx) error {
	records, err := s.reports.List(c.Context(), report.Filter{IncludeRemoved: true})
	if err != nil {
		return serverErr(c, s.log, err)
	}

	// Optional server-side projection mirroring the admin list controls.
	if hasProjectionParams(c) {
		p := listview.Projection{
			Query:       c.Query("q"),
			ShowRemoved: c.QueryBool("removed"),
			SortField:   listview.SortField(c.Query("sort", string(listview.SortName))),
			SortOrder:   listview.SortOrder(c.Query("order", string(listview.Ascending))),
		}
		records = p.Apply(records, s.language())
	}

	out := make([]recordJSON, 0, len(records))
	for _, rec := range records {
		rj, err := toRecordJSON(rec)
		if err != nil {
			return serverErr(c, s.log, err)
		}
		out = append(out, rj)
	}
	return c.JSON(out)
}

func (s *Server) handleToggleApproval(c *fiber.Ctx) error {
	rec, err := s.reports.ToggleApproval(c.Context(), c.Params("id"))
	return s.respondMutation(c, rec, err)
}

func (s *Server) handleRemove(c *fiber.Ctx) error {
	rec, err := s.reports.Remove(c.Context(), c.Params("id"))
	return s.respondMutation(c, rec, err)
}

func (s *Server) handleRestore(c *fiber.Ctx) error {
	rec, err := s.reports.Restore(c.Context(), c.Params("id"))
	return s.respondMutation(c, rec, err)
}

func (s *Server) handlePermanentDelete(c *fiber.Ctx) error {
	if err := s.reports.PermanentDelete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return s.notFound(c)
		}
		return serverErr(c, s.log, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badReq(c, "invalid JSON", "")
	}

	result, err := s.auth.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(errorResp{OK: false, Error: "invalid credentials"})
		}
		return serverErr(c, s.log, err)
	}

	return c.JSON(fiber.Map{"ok": true, "token": result.Token, "username": result.Admin.Username})
}

func (s *Server) handleSetLanguage(c *fiber.Ctx) error {
	if s.settings == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(errorResp{OK: false, Error: "language switching disabled"})
	}

	var req struct {
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badReq(c, "invalid JSON", "")
	}

	tag, err := language.Parse(req.Language)
	if err != nil {
		return badReq(c, "unknown language", "")
	}
	if err := s.settings.SetLanguage(tag); err != nil {
		return badReq(c, "unsupported language", "")
	}
	return c.JSON(fiber.Map{"ok": true, "language": tag.String()})
}

func (s *Server) respondMutation(c *fiber.Ctx, rec report.Record, err error) error {
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return s.notFound(c)
		}
		return serverErr(c, s.log, err)
	}
	out, err := toRecordJSON(rec)
	if err != nil {
		return serverErr(c, s.log, err)
	}
	return c.JSON(out)
}

func (s *Server) notFound(c *fiber.Ctx) error {
	msg := settings.MsgReportNotFound
	if s.settings != nil {
		msg = s.settings.Message(settings.MsgReportNotFound)
	}
	return c.Status(fiber.StatusNotFound).JSON(errorResp{OK: false, Error: msg})
}

func (s *Server) language() language.Tag {
	if s.settings == nil {
		return language.English
	}
	return s.settings.Language()
}

func (s *Server) validationMessage(verr *report.ValidationError) string {
	if s.settings == nil {
		return verr.Error()
	}
	key := ""
	switch {
	case verr.Field == report.FieldName && verr.Code == report.CodeRequired:
		key = settings.MsgPleaseEnterName
	case verr.Field == report.FieldName && verr.Code == report.CodePattern:
		key = settings.MsgNameInvalid
	case verr.Field == report.FieldName && verr.Code == report.CodeTooShort:
		key = settings.MsgNameTooShort
	case verr.Field == report.FieldTelephone && verr.Code == report.CodeRequired:
		key = settings.MsgPleaseEnterPhone
	case verr.Field == report.FieldTelephone && verr.Code == report.CodePattern:
		key = settings.MsgPhoneInvalid
	case verr.Field == report.FieldComments:
		key = settings.MsgPleaseEnterComments
	default:
		return verr.Error()
	}
	return s.settings.Message(key)
}

func hasProjectionParams(c *fiber.Ctx) bool {
	return c.Query("q") != "" || c.Query("sort") != "" || c.Query("order") != "" || c.Query("removed") != ""
}

func decodeDataURI(s string) ([]byte, bool) {
	if !strings.HasPrefix(s, "data:") {
		return nil, false
	}
	idx := strings.Index(s, ";base64,")
	if idx < 0 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(s[idx+len(";base64,"):])
	if err != nil {
		return nil, false
	}
	return data, true
}

func badReq(c *fiber.Ctx, msg, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResp{OK: false, Error: msg, Field: field})
}

func serverErr(c *fiber.Ctx, log *zap.Logger, err error) error {
	log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(errorResp{OK: false, Error: "internal error"})
}
