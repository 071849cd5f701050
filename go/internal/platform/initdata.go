package platform

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/YarikYar/alias/go/internal/models"
)

// InitData is the launch payload the host platform hands the client. Raw is
// forwarded to the backend untouched; the server verifies it.
type InitData struct {
	Raw        string
	User       *models.TelegramUser
	StartParam string
	AuthDate   time.Time
}

// ParseInitData reads the user and start parameter out of a raw init data
// query string. The signature is not checked.
func ParseInitData(raw string) (*InitData, error) {
	data := &InitData{Raw: raw}
	if raw == "" {
		return data, nil
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse init data: %w", err)
	}

	if u := values.Get("user"); u != "" {
		var user models.TelegramUser
		if err := json.Unmarshal([]byte(u), &user); err != nil {
			return nil, fmt.Errorf("failed to parse init data user: %w", err)
		}
		if user.ID == 0 {
			return nil, fmt.Errorf("init data user has no id")
		}
		data.User = &user
	}

	data.StartParam = values.Get("start_param")

	if ts := values.Get("auth_date"); ts != "" {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid auth_date %q: %w", ts, err)
		}
		data.AuthDate = time.Unix(sec, 0).UTC()
	}

	return data, nil
}
