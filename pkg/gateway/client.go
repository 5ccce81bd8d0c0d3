// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// client is one websocket connection. It is the models.Session of the player registered on it.
type client struct {
	conn *websocket.Conn
	log  *logrus.Entry

	mu         sync.Mutex
	closed     bool
	playerName string
	send       chan models.Notification
}

func newClient(conn *websocket.Conn, log *logrus.Entry) *client {
	return &client{
		conn: conn,
		log:  log,
		send: make(chan models.Notification, constants.SessionSendBuffer),
	}
}

// Send never blocks. A client that cannot keep up loses notifications.
func (c *client) Send(notification models.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if notification.Type == constants.NotificationKicked {
		c.playerName = ""
	}

	select {
	case c.send <- notification:
	default:
		c.log.Warnf("send buffer full, dropping %s notification", notification.Type)
	}
}

func (c *client) player() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerName
}

func (c *client) setPlayer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = name
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case notification, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(notification); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
