package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/iudanet/sidenotes/internal/relay"
	"github.com/iudanet/sidenotes/internal/validation"
	"github.com/iudanet/sidenotes/pkg/api"
)

// MaxMessageSize bounds a single websocket message.
// A loaded event carries the whole collection, so it exceeds the 32KiB default.
const MaxMessageSize = 1 << 20

// Dispatcher runs relay commands.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd api.Command)
}

// RelayHandler serves the websocket used by UI endpoints.
type RelayHandler struct {
	logger         *slog.Logger
	dispatcher     Dispatcher
	bus            *relay.Bus
	originPatterns []string
}

// NewRelayHandler создает handler для websocket relay
// originPatterns разрешает cross-origin подключения (например, chrome-extension://*)
func NewRelayHandler(logger *slog.Logger, dispatcher Dispatcher, bus *relay.Bus, originPatterns []string) *RelayHandler {
	return &RelayHandler{
		logger:         logger,
		dispatcher:     dispatcher,
		bus:            bus,
		originPatterns: originPatterns,
	}
}

// Relay обрабатывает GET /api/v1/relay
// Каждая входящая команда выполняется в своей горутине, события рассылаются всем endpoint
func (h *RelayHandler) Relay(w http.ResponseWriter, r *http.Request) {
	endpoint, err := h.endpointID(r)
	if err != nil {
		h.logger.Warn("invalid endpoint id", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("endpoint", endpoint), slog.Any("error", err))
		return
	}
	defer ws.Close(websocket.StatusInternalError, "")
	ws.SetReadLimit(MaxMessageSize)

	sub := h.bus.Subscribe(endpoint)
	defer sub.Close()

	// cancel срабатывает раньше sub.Close
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.logger.Info("Endpoint connected", "endpoint", endpoint, "endpoints", h.bus.Len())

	go h.writeEvents(ctx, cancel, ws, sub)

	for {
		var cmd api.Command
		if err := wsjson.Read(ctx, ws, &cmd); err != nil {
			h.logDisconnect(endpoint, err)
			return
		}

		// origin по умолчанию - подключенный endpoint
		if cmd.Origin == "" {
			cmd.Origin = endpoint
		}
		h.dispatcher.Dispatch(ctx, cmd)
	}
}

func (h *RelayHandler) writeEvents(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, sub *relay.Subscription) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				if ctx.Err() != nil {
					return
				}
				// bus закрыл отстающую подписку: endpoint переподключится и загрузит заметки заново
				h.logger.Warn("Event stream overflowed, closing endpoint", slog.String("endpoint", sub.Endpoint()))
				_ = ws.Close(websocket.StatusTryAgainLater, "event stream overflowed, reload required")
				return
			}
			if err := wsjson.Write(ctx, ws, ev); err != nil {
				h.logger.Debug("failed to write event", slog.String("endpoint", sub.Endpoint()), slog.Any("error", err))
				return
			}
		}
	}
}

func (h *RelayHandler) logDisconnect(endpoint string, err error) {
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
		h.logger.Info("Endpoint disconnected", "endpoint", endpoint)
		return
	}
	h.logger.Warn("Endpoint connection lost", "endpoint", endpoint, "error", err)
}

// endpointID берет id из токена, затем из query параметра, иначе генерирует новый
func (h *RelayHandler) endpointID(r *http.Request) (string, error) {
	if endpoint, ok := GetEndpoint(r.Context()); ok {
		return endpoint, nil
	}

	if endpoint := r.URL.Query().Get("endpoint"); endpoint != "" {
		if err := validation.ValidateEndpointID(endpoint); err != nil {
			return "", err
		}
		return endpoint, nil
	}

	return uuid.NewString(), nil
}
