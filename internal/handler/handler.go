package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sudaistravel/internal/export"
	"sudaistravel/internal/model"
	"sudaistravel/internal/service"
	"sudaistravel/internal/view"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

const formError = "Please fill in all required fields with valid values."

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	Sessions       *service.Sessions
	ContentService *service.ContentService
	BookingService *service.BookingService
	Exporter       *export.Exporter
	Renderer       *view.Renderer
	Logger         *slog.Logger
	CookieName     string
	CookieMaxAge   time.Duration
	now            func() time.Time
}

// NewHandler создает новый Handler с внедрением зависимостей (сервисов).
func NewHandler(sessions *service.Sessions, cs *service.ContentService, bs *service.BookingService,
	exporter *export.Exporter, renderer *view.Renderer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Sessions:       sessions,
		ContentService: cs,
		BookingService: bs,
		Exporter:       exporter,
		Renderer:       renderer,
		Logger:         logger,
		CookieName:     "sudais_session",
		CookieMaxAge:   service.DefaultSessionTTL,
		now:            time.Now,
	}
}

// WithSession находит или создает сессию посетителя и кладет ее в контекст запроса.
func (h *Handler) WithSession(c *gin.Context) {
	id, _ := c.Cookie(h.CookieName)
	sess, err := h.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("не удалось получить сессию", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if sess.ID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.CookieName, sess.ID, int(h.CookieMaxAge.Seconds()), "/", "", false, true)
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func session(c *gin.Context) *service.Session {
	return c.MustGet(sessionKey).(*service.Session)
}

func (h *Handler) save(c *gin.Context, sess *service.Session) {
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		h.Logger.Warn("не удалось сохранить сессию", "session", sess.ID, "error", err)
	}
}

// Show обработчик для GET / - отрисовывает текущую страницу посетителя в общем каркасе.
func (h *Handler) Show(c *gin.Context) {
	sess := session(c)
	coord := sess.Coordinator

	// Страница сейчас будет отрисована, ждать таймер прокрутки больше незачем.
	if st := coord.State(); st.Path == model.RouteHome && st.PendingAnchor != "" {
		coord.Flush()
		h.save(c, sess)
	}

	route := coord.State().Path
	// Прокрутка, сработавшая до ухода с главной, уже неактуальна.
	target := sess.Scroll.Take()
	if route != model.RouteHome {
		target = ""
	}

	h.render(c, http.StatusOK, view.PageInput{
		Route:        route,
		MenuOpen:     sess.MenuOpen(),
		Booking:      coord.Booking(),
		Draft:        h.BookingService.NewDraft(),
		ScrollTarget: target,
	})
}

func (h *Handler) render(c *gin.Context, status int, in view.PageInput) {
	in.Site = h.ContentService.Site()
	in.ScrollDelay = service.ScrollDelay
	in.Now = h.now()

	page, err := view.NewPage(in)
	if err != nil {
		h.Logger.Error("не удалось подготовить страницу", "route", in.Route, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, page); err != nil {
		h.Logger.Error("не удалось отрисовать страницу", "route", in.Route, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

type navigateForm struct {
	To   string `form:"to"`
	Hash string `form:"hash"`
}

// Navigate обработчик для POST /navigate - переход по ссылке навигации.
func (h *Handler) Navigate(c *gin.Context) {
	var form navigateForm
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if form.To == "" {
		form.To = string(model.RouteHome)
	}

	sess := session(c)
	if err := sess.Coordinator.Navigate(model.Route(form.To), form.Hash); err != nil {
		if errors.Is(err, service.ErrUnknownRoute) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		h.Logger.Error("ошибка навигации", "to", form.To, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if form.Hash == "" {
		sess.Scroll.Take()
	}
	sess.CloseMenu()
	h.save(c, sess)
	c.Redirect(http.StatusSeeOther, string(model.RouteHome))
}

// ToggleMenu обработчик для POST /menu - открывает или закрывает мобильное меню.
func (h *Handler) ToggleMenu(c *gin.Context) {
	sess := session(c)
	sess.ToggleMenu()
	h.save(c, sess)
	c.Redirect(http.StatusSeeOther, string(model.RouteHome))
}

// SubmitBooking обработчик для POST /booking - принимает форму бронирования.
func (h *Handler) SubmitBooking(c *gin.Context) {
	sess := session(c)

	var b model.Booking
	if err := c.ShouldBind(&b); err != nil {
		h.Logger.Debug("форма бронирования отклонена", "session", sess.ID, "error", err)
		if b.Date == "" {
			b.Date = h.BookingService.NewDraft().Date
		}
		h.render(c, http.StatusBadRequest, view.PageInput{
			Route:     model.RouteBooking,
			MenuOpen:  sess.MenuOpen(),
			Draft:     b,
			FormError: formError,
		})
		return
	}

	h.BookingService.Submit(c.Request.Context(), sess, b)
	h.save(c, sess)
	c.Redirect(http.StatusSeeOther, string(model.RouteHome))
}

// Confirmation обработчик для GET /confirmation - выгружает подтверждение бронирования.
func (h *Handler) Confirmation(c *gin.Context) {
	var b model.Booking
	if last := session(c).Coordinator.Booking(); last != nil {
		b = *last
	}
	h.Exporter.Export(b, &download{c: c})
}

// download отдает файл как вложение.
type download struct {
	c *gin.Context
}

func (d *download) Download(name string, data []byte) error {
	if d.c.Writer.Written() {
		return errors.New("ответ уже отправлен")
	}
	d.c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	d.c.Header("Cache-Control", "no-store")
	d.c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
	return nil
}

// Health обработчик для GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
