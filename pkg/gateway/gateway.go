// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package gateway accepts player websocket connections and turns their messages into directory calls.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

var (
	errMalformedMessage  = errors.New("malformed message")
	errUnknownMessage    = errors.New("unknown message type")
	errAlreadyRegistered = errors.New("connection already has a registered player")
)

// inboundMessage accepts the payload either under data or inline, so {"type":"chooseMission","missionType":"individual"}
// and {"type":"chooseMission","data":{"missionType":"individual"}} are the same request.
type inboundMessage struct {
	Type        string          `json:"type"`
	MissionType string          `json:"missionType,omitempty"`
	Name        string          `json:"name,omitempty"`
	Age         int             `json:"age,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

type choosePayload struct {
	MissionType string `json:"missionType"`
}

type Handler struct {
	players  matchmaker.PlayerService
	upgrader websocket.Upgrader
}

func NewHandler(players matchmaker.PlayerService) *Handler {
	return &Handler{
		players: players,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		return
	}

	scope := envelope.NewRootScope(context.Background(), "Gateway.Connection", r.Header.Get("X-Trace-Id"))
	defer scope.Finish()
	scope.Log = scope.Log.WithField("remote", r.RemoteAddr)
	scope.Log.Info("connection opened")

	c := newClient(conn, scope.Log)
	go c.writePump()
	h.readPump(scope, c)
}

func (h *Handler) readPump(scope *envelope.Scope, c *client) {
	defer func() {
		if name := c.player(); name != "" {
			err := h.players.RemovePlayer(scope, name, constants.EndReasonDisconnected)
			if err != nil && !errors.Is(err, models.ErrPlayerNotFound) {
				scope.Log.WithError(err).Warn("unable to remove disconnected player")
			}
		}
		c.close()
		scope.Log.Info("connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				scope.Log.WithError(err).Debug("unexpected close")
			}
			return
		}
		if err := h.handle(scope, c, raw); err != nil {
			scope.Log.WithError(err).Debug("request rejected")
			c.Send(models.ErrorNotification(err))
		}
	}
}

func (h *Handler) handle(rootScope *envelope.Scope, c *client, raw []byte) error {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: %v", errMalformedMessage, err)
	}

	scope := rootScope.NewChildScope("Gateway." + msg.Type)
	defer scope.Finish()

	switch msg.Type {
	case constants.MessageRegister:
		if c.player() != "" {
			return errAlreadyRegistered
		}
		profile := models.Profile{Name: msg.Name, Age: msg.Age, Gender: msg.Gender}
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &profile); err != nil {
				return fmt.Errorf("%w: %v", errMalformedMessage, err)
			}
		}

		player, err := h.players.Register(scope, profile, c)
		if err != nil {
			return err
		}
		c.setPlayer(player.Name)
		return h.players.Admit(scope, player.Name)

	case constants.MessageChooseMission:
		name := c.player()
		if name == "" {
			return models.ErrNotRegistered
		}
		missionType := msg.MissionType
		if len(msg.Data) > 0 {
			var payload choosePayload
			if err := json.Unmarshal(msg.Data, &payload); err != nil {
				return fmt.Errorf("%w: %v", errMalformedMessage, err)
			}
			missionType = payload.MissionType
		}
		return h.players.ChooseMission(scope, name, models.MissionType(missionType))

	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
}
