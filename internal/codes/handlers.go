package codes

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"mcid/internal/auth"
	"mcid/internal/logs"
	"mcid/internal/middleware"
	"mcid/internal/models"
	"mcid/internal/mojang"
	"mcid/internal/repo"
)

// CodeTTL — срок жизни заявки с момента запроса.
const CodeTTL = 5 * time.Minute

var (
	codeRe     = regexp.MustCompile(`^[0-9]{6}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,16}$`)
)

// Handler обслуживает выдачу и погашение кодов для интегрирующих приложений.
type Handler struct {
	players *repo.PlayerStore
	codes   *repo.CodeStore
	mojang  *mojang.Client
}

func NewHandler(players *repo.PlayerStore, codes *repo.CodeStore, mc *mojang.Client) *Handler {
	return &Handler{players: players, codes: codes, mojang: mc}
}

func (h *Handler) log(r *http.Request) *logrus.Entry {
	return logs.Logger.WithFields(logrus.Fields{
		"reqid": middleware.GetRequestID(r),
		"path":  r.URL.Path,
	})
}

// RequestCode — POST /api/v1/codes/request.
// Создаёт (или перезаписывает) заявку пары (приложение, игрок).
// Значение кода не возвращаем: его игрок увидит только через плагин.
func (h *Handler) RequestCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := auth.KeyFrom(r)

	var in RequestCodeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteKind(w, http.StatusBadRequest, "validation_error",
			"Bad Request", "invalid JSON body")
		return
	}
	mcid, ok := mojang.NormalizeMCID(in.UUID)
	if !ok {
		models.WriteKind(w, http.StatusBadRequest, "validation_error",
			"Bad Request", "uuid must be a 32-character lowercase hex string (hyphens allowed)")
		return
	}
	l := h.log(r).WithField("mcid", mcid)

	// сперва убеждаемся, что аккаунт ещё существует в Mojang
	username, err := h.mojang.UsernameByID(r.Context(), mcid)
	if err != nil {
		h.writeMojangError(w, l, err, start)
		return
	}

	if _, err := h.players.Upsert(r.Context(), mcid); err != nil {
		l.WithField("dur", time.Since(start)).Errorf("player upsert failed: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "code request failed")
		return
	}

	expiration := time.Now().UTC().Add(CodeTTL)
	if _, err := h.codes.UpsertPending(r.Context(), key.ID, mcid, expiration); err != nil {
		l.WithField("dur", time.Since(start)).Errorf("pending upsert failed: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "code request failed")
		return
	}

	l.WithFields(logrus.Fields{"username": username, "dur": time.Since(start)}).
		Info("verification code requested")
	models.WriteJSON(w, http.StatusOK, RequestCodeResponse{
		Message:   "Successfully generated the code.",
		UserID:    mcid,
		ExpiresAt: expiration,
	})
}

// VerifyCode — POST /api/v1/codes/verify.
// Код одноразовый: удаляем его ДО повторного lookup ника, чтобы даже при
// сбое Mojang на последнем шаге код уже нельзя было погасить второй раз.
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := auth.KeyFrom(r)

	var in VerifyCodeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteKind(w, http.StatusBadRequest, "validation_error",
			"Bad Request", "invalid JSON body")
		return
	}
	mcid, ok := mojang.NormalizeMCID(in.UUID)
	if !ok {
		models.WriteKind(w, http.StatusBadRequest, "validation_error",
			"Bad Request", "uuid must be a 32-character lowercase hex string (hyphens allowed)")
		return
	}
	if !codeRe.MatchString(in.Code) {
		models.WriteKind(w, http.StatusBadRequest, "validation_error",
			"Bad Request", "code must be exactly 6 digits")
		return
	}
	l := h.log(r).WithField("mcid", mcid)

	now := time.Now().UTC()
	rec, err := h.codes.FindActiveByCode(r.Context(), key.ID, in.Code, now)
	if err != nil {
		l.WithField("dur", time.Since(start)).Errorf("code lookup failed: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "code verification failed")
		return
	}
	if rec == nil {
		l.Warn("verification failed: code not found or expired")
		models.WriteKind(w, http.StatusGone, "code_expired",
			"Code Expired", "the code is invalid, expired or already used")
		return
	}

	// Код привязан к другому игроку — без побочных эффектов, чтобы
	// повторная попытка с правильным UUID осталась возможной.
	if rec.PlayerMCID != mcid {
		l.WithField("bound_mcid", rec.PlayerMCID).Warn("verification failed: uuid mismatch")
		models.WriteKind(w, http.StatusForbidden, "uuid_mismatch",
			"Forbidden", "the provided code belongs to a different player")
		return
	}

	if err := h.codes.DeleteByCode(r.Context(), key.ID, in.Code); err != nil {
		l.WithField("dur", time.Since(start)).Errorf("code delete failed: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "code verification failed")
		return
	}

	// ник мог смениться с момента заявки — перечитываем
	username, err := h.mojang.UsernameByID(r.Context(), mcid)
	if err != nil {
		h.writeMojangError(w, l, err, start)
		return
	}

	l.WithFields(logrus.Fields{"username": username, "dur": time.Since(start)}).
		Info("verification code redeemed")
	models.WriteJSON(w, http.StatusOK, VerifyCodeResponse{
		UserID:   rec.PlayerMCID,
		Username: username,
	})
}

// LookupUsername — GET /api/v1/lookup/{username}.
// Обратное разрешение ник → MCID (для сценария «привязать по нику»).
func (h *Handler) LookupUsername(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	username := mux.Vars(r)["username"]
	if !usernameRe.MatchString(username) {
		models.WriteKind(w, http.StatusBadRequest, "validation_error",
			"Bad Request", "username must be 3-16 characters of [a-zA-Z0-9_]")
		return
	}
	l := h.log(r).WithField("username", username)

	mcid, canonical, err := h.mojang.ProfileByUsername(r.Context(), username)
	if err != nil {
		h.writeMojangError(w, l, err, start)
		return
	}

	l.WithFields(logrus.Fields{"mcid": mcid, "dur": time.Since(start)}).Debug("username resolved")
	models.WriteJSON(w, http.StatusOK, LookupResponse{
		UserID:   mcid,
		Username: canonical,
	})
}

func (h *Handler) writeMojangError(w http.ResponseWriter, l *logrus.Entry, err error, start time.Time) {
	switch {
	case errors.Is(err, mojang.ErrProfileNotFound):
		l.WithField("dur", time.Since(start)).Info("profile not found in Mojang API")
		models.WriteKind(w, http.StatusNotFound, "minecraft_user_not_found",
			"Minecraft User Not Found", "no such account in the Mojang API")
	case errors.Is(err, mojang.ErrUpstream):
		l.WithField("dur", time.Since(start)).Errorf("mojang api error: %v", err)
		models.WriteKind(w, http.StatusBadGateway, "mojang_api_error",
			"Mojang API Error", "error fetching data from the Mojang API")
	default:
		l.WithField("dur", time.Since(start)).Errorf("unexpected resolver error: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "unexpected error")
	}
}
