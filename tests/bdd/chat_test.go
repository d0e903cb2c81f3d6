package bdd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gofiber/fiber/v2"

	"realtime_chat_service/internal/api/handlers"
	"realtime_chat_service/internal/api/router"
	chatapp "realtime_chat_service/internal/chat/app"
	"realtime_chat_service/internal/chat/domain"
	chatrepo "realtime_chat_service/internal/chat/repository"
	memberapp "realtime_chat_service/internal/member/app"
	memberrepo "realtime_chat_service/internal/member/repository"
	"realtime_chat_service/pkg/logger"
)

type chatFeature struct {
	app *fiber.App
	hub *chatapp.Hub

	clients map[string]*chatapp.Client

	loginStatus int
	loginToken  string
}

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "chat_bdd_test")
	logger.Log = logger.Initialize("chat_bdd_test", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func (f *chatFeature) reset(*godog.Scenario) {
	history := chatrepo.NewHistoryStore()
	f.hub = chatapp.NewHub(history, nil)
	f.clients = make(map[string]*chatapp.Client)
	f.loginStatus = 0
	f.loginToken = ""

	uploadDir, _ := os.MkdirTemp("", "bdd_uploads")
	files, _ := chatrepo.NewLocalFileStore(uploadDir)

	memberUC := memberapp.NewMemberUseCase(
		memberapp.OpenVerifier{}, nil, time.Hour,
		memberrepo.NewMemorySessionRepository(),
	)

	f.app = fiber.New()
	router.RegisterRoutes(
		f.app,
		handlers.NewAuthHandler(memberUC),
		handlers.NewChatHandler(f.hub, files),
		chatapp.NewChatWebsocketHandler(f.hub),
	)
}

func (f *chatFeature) get(path string, out interface{}) error {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	resp, err := f.app.Test(req, -1)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (f *chatFeature) logsInWithPassword(username, password string) error {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f.loginStatus = resp.StatusCode
	if resp.StatusCode == http.StatusOK {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return err
		}
		f.loginToken = body.Token
	}
	return nil
}

func (f *chatFeature) loginSucceeded() error {
	if f.loginStatus != http.StatusOK {
		return fmt.Errorf("login status %d", f.loginStatus)
	}
	if f.loginToken == "" {
		return fmt.Errorf("no token issued")
	}
	return nil
}

func (f *chatFeature) loginFailedWith(status int) error {
	if f.loginStatus != status {
		return fmt.Errorf("login status %d, want %d", f.loginStatus, status)
	}
	return nil
}

func (f *chatFeature) isConnected(username string) error {
	f.clients[username] = f.hub.Register("u-"+username, username)
	return nil
}

func (f *chatFeature) sendsToRoom(username, message, room string) error {
	c, ok := f.clients[username]
	if !ok {
		return fmt.Errorf("%s is not connected", username)
	}

	_, sent := f.hub.SendMessage(c.ID(), domain.WSRequest{Room: room, Message: message})
	if !sent {
		return fmt.Errorf("message not accepted")
	}
	return nil
}

func (f *chatFeature) historyContains(room, message string) error {
	var body struct {
		Messages []struct {
			Message string `json:"message"`
		} `json:"messages"`
	}
	if err := f.get("/messages/"+room, &body); err != nil {
		return err
	}
	for _, m := range body.Messages {
		if m.Message == message {
			return nil
		}
	}
	return fmt.Errorf("%q not found in %s history", message, room)
}

func (f *chatFeature) userListContains(a, b string) error {
	var users []struct {
		Username string `json:"username"`
	}
	if err := f.get("/users", &users); err != nil {
		return err
	}

	found := map[string]bool{}
	for _, u := range users {
		found[u.Username] = true
	}
	if !found[a] || !found[b] {
		return fmt.Errorf("user list %v missing %s or %s", users, a, b)
	}
	return nil
}

func (f *chatFeature) roomListShows(room string, count int) error {
	var rooms []struct {
		Name         string `json:"name"`
		MessageCount int    `json:"messageCount"`
	}
	if err := f.get("/rooms", &rooms); err != nil {
		return err
	}
	for _, r := range rooms {
		if r.Name == room {
			if r.MessageCount != count {
				return fmt.Errorf("room %s has %d messages, want %d", room, r.MessageCount, count)
			}
			return nil
		}
	}
	return fmt.Errorf("room %s not listed", room)
}

func InitializeScenario(sc *godog.ScenarioContext) {
	f := &chatFeature{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		f.reset(s)
		return ctx, nil
	})

	sc.Step(`^"([^"]*)" logs in with password "([^"]*)"$`, f.logsInWithPassword)
	sc.Step(`^the login succeeds and a token is issued$`, f.loginSucceeded)
	sc.Step(`^the login fails with status (\d+)$`, f.loginFailedWith)
	sc.Step(`^"([^"]*)" is connected$`, f.isConnected)
	sc.Step(`^"([^"]*)" sends "([^"]*)" to room "([^"]*)"$`, f.sendsToRoom)
	sc.Step(`^the first page of "([^"]*)" history contains "([^"]*)"$`, f.historyContains)
	sc.Step(`^the user list contains "([^"]*)" and "([^"]*)"$`, f.userListContains)
	sc.Step(`^the room list shows "([^"]*)" with (\d+) message[s]?$`, f.roomListShows)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"featureFiles"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("feature tests failed")
	}
}
