package middleware

import (
	"encoding/json"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
)

// SavePendingResolution remembers a create batch halted on conflicts so the
// follow-up resolve request can finish it. It replaces any earlier one.
func SavePendingResolution(c *gin.Context, pending *coordinator.PendingResolution) error {
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending resolution: %w", err)
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyPendingResolution, string(raw))
	if err := session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetPendingResolution retrieves the halted batch from the session
func GetPendingResolution(c *gin.Context) (*coordinator.PendingResolution, bool) {
	session := sessions.Default(c)
	raw, ok := session.Get(constants.SessionKeyPendingResolution).(string)
	if !ok || raw == "" {
		return nil, false
	}

	var pending coordinator.PendingResolution
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, false
	}
	return &pending, true
}

// ClearPendingResolution forgets the halted batch
func ClearPendingResolution(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(constants.SessionKeyPendingResolution)
	return session.Save()
}
