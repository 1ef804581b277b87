package plugin

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"mcid/internal/codes"
	"mcid/internal/logs"
	"mcid/internal/middleware"
	"mcid/internal/models"
	"mcid/internal/repo"
)

// Handler — внутренний эндпоинт для серверного плагина: показать игроку
// его актуальный код. Отдельная граница доверия (скоуп plugin:read),
// не привязан к конкретному приложению-интегратору.
type Handler struct {
	players *repo.PlayerStore
	codes   *repo.CodeStore
}

func NewHandler(players *repo.PlayerStore, cs *repo.CodeStore) *Handler {
	return &Handler{players: players, codes: cs}
}

type codeResponse struct {
	Code string `json:"code"`
}

// GetCode — GET /api/v1/plugin/code/{mcid}.
// Заявка создаётся без значения кода; само значение генерируется лениво
// при первом poll-е. Проигравший гонку возвращает значение победителя.
func (h *Handler) GetCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	mcid := mux.Vars(r)["mcid"]
	l := logs.Logger.WithFields(logrus.Fields{
		"reqid": middleware.GetRequestID(r),
		"mcid":  mcid,
	})

	// только уже известные игроки: внешний lookup ради проверки
	// существования здесь не делаем
	player, err := h.players.Get(r.Context(), mcid)
	if err != nil {
		l.Errorf("player lookup failed: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "code retrieval failed")
		return
	}
	if player == nil {
		l.Info("plugin code request for unknown player")
		models.WriteKind(w, http.StatusNotFound, "not_found",
			"Not Found", "no such player")
		return
	}

	now := time.Now().UTC()
	rec, err := h.codes.FindActiveByPlayer(r.Context(), mcid, now)
	if err != nil {
		l.Errorf("code lookup failed: %v", err)
		models.WriteKind(w, http.StatusInternalServerError, "internal_error",
			"Internal Server Error", "code retrieval failed")
		return
	}
	if rec == nil {
		l.Info("no active verification code for player")
		models.WriteKind(w, http.StatusNotFound, "not_found",
			"Not Found", "no active verification code")
		return
	}

	value := ""
	if rec.Pending() {
		generated, err := codes.Generate()
		if err != nil {
			l.Errorf("code generation failed: %v", err)
			models.WriteKind(w, http.StatusInternalServerError, "internal_error",
				"Internal Server Error", "code retrieval failed")
			return
		}
		won, err := h.codes.SetCodeIfPending(r.Context(), rec.ID, generated)
		if err != nil {
			l.Errorf("code persist failed: %v", err)
			models.WriteKind(w, http.StatusInternalServerError, "internal_error",
				"Internal Server Error", "code retrieval failed")
			return
		}
		if won {
			value = generated
			l.WithField("dur", time.Since(start)).Info("generated code for pending request")
		} else {
			// параллельный poll успел раньше — берём его значение
			cur, err := h.codes.Get(r.Context(), rec.ID)
			if err != nil || cur == nil || cur.Code == nil {
				l.Errorf("code reload after lost race failed: %v", err)
				models.WriteKind(w, http.StatusInternalServerError, "internal_error",
					"Internal Server Error", "code retrieval failed")
				return
			}
			value = *cur.Code
		}
	} else {
		value = *rec.Code
	}

	l.WithField("dur", time.Since(start)).Debug("code served to plugin")
	models.WriteJSON(w, http.StatusOK, codeResponse{Code: codes.Format(value)})
}
