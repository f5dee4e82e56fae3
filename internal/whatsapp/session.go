package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/neekaru/whatsapp-gateway/internal/client"
	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"

	_ "github.com/mattn/go-sqlite3"
)

// SessionFile is the sqlite database holding the paired device credentials
const SessionFile = "session.db"

// ErrNotRegistered is returned when the destination has no WhatsApp account
var ErrNotRegistered = errors.New("the phone number is not registered on WhatsApp")

// Session is the WhatsApp web client for the single gateway account. It
// translates whatsmeow events into lifecycle events for the connection manager.
type Session struct {
	client    *whatsmeow.Client
	container *sqlstore.Container
	logger    zerolog.Logger

	sinkLock sync.RWMutex
	sink     func(client.Event)
}

// Open restores (or creates) the device store under dataDir and builds the
// client without connecting.
func Open(ctx context.Context, dataDir string, logger zerolog.Logger) (*Session, error) {
	dbPath := filepath.Join(dataDir, SessionFile)
	logger = logger.With().Str("component", "whatsapp").Logger()
	logger.Info().Str("path", dbPath).Msg("Opening session store")

	container, err := sqlstore.New(ctx, "sqlite3", "file:"+dbPath+"?_foreign_keys=on", newWALogger(logger, "Database"))
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("device error: %w", err)
	}

	store.SetOSInfo("Linux", store.GetWAVersion())
	store.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()

	cli := whatsmeow.NewClient(deviceStore, newWALogger(logger, "Client"))
	// Recovery is owned by the connection manager.
	cli.EnableAutoReconnect = false

	s := &Session{
		client:    cli,
		container: container,
		logger:    logger,
	}
	cli.AddEventHandler(s.handleWhatsmeowEvent)

	if cli.Store.ID != nil {
		logger.Info().Str("jid", cli.Store.ID.String()).Msg("Device is registered, session will be restored")
	} else {
		logger.Info().Msg("Device not yet registered, QR code needed")
	}
	return s, nil
}

// SetEventSink sets the receiver of lifecycle events
func (s *Session) SetEventSink(sink func(client.Event)) {
	s.sinkLock.Lock()
	defer s.sinkLock.Unlock()
	s.sink = sink
}

// Initialize connects to WhatsApp. Unpaired devices get a pairing channel
// whose codes are emitted as qr events.
func (s *Session) Initialize(ctx context.Context) error {
	if s.client.IsConnected() {
		s.logger.Info().Msg("Client is already connected, disconnecting first")
		s.client.Disconnect()
		time.Sleep(500 * time.Millisecond)
	}

	if s.client.Store.ID == nil {
		qrChan, err := s.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to get QR channel: %w", err)
		}
		go s.watchQR(qrChan)
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// SendMessage sends a plain text message to a chat identifier such as
// "5493794595272@c.us".
func (s *Session) SendMessage(ctx context.Context, chatID, text string) error {
	recipient, err := ParseChatID(chatID)
	if err != nil {
		return err
	}

	resp, err := s.client.IsOnWhatsApp([]string{"+" + recipient.User})
	if err != nil {
		return fmt.Errorf("failed to check number: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return ErrNotRegistered
	}
	if !resp[0].JID.IsEmpty() {
		recipient = resp[0].JID
	}

	msg := &waE2E.Message{
		Conversation: proto.String(text),
	}

	sent, err := s.client.SendMessage(ctx, recipient, msg)
	if err != nil {
		return err
	}

	s.logger.Debug().Str("id", string(sent.ID)).Str("to", recipient.String()).Msg("Message acknowledged by server")
	return nil
}

// Close disconnects the client and closes the session store
func (s *Session) Close() error {
	s.client.Disconnect()
	return s.container.Close()
}

// ParseChatID converts a chat identifier into a JID. The legacy "c.us" server
// maps to the default user server.
func ParseChatID(chatID string) (types.JID, error) {
	user, server, ok := strings.Cut(chatID, "@")
	if !ok || user == "" || server == "" {
		return types.EmptyJID, fmt.Errorf("invalid chat id %q", chatID)
	}
	if server == types.LegacyUserServer {
		server = types.DefaultUserServer
	}
	return types.NewJID(user, server), nil
}

func (s *Session) watchQR(ch <-chan whatsmeow.QRChannelItem) {
	for item := range ch {
		if item.Event != whatsmeow.QRChannelEventCode {
			s.logger.Info().Str("event", item.Event).Msg("Pairing channel event")
		}
		for _, evt := range translateQRItem(item) {
			s.emit(evt)
		}
	}
}

func (s *Session) handleWhatsmeowEvent(evt interface{}) {
	for _, e := range translateEvent(evt) {
		s.emit(e)
	}
}

func (s *Session) emit(evt client.Event) {
	s.sinkLock.RLock()
	sink := s.sink
	s.sinkLock.RUnlock()

	if sink == nil {
		s.logger.Warn().Str("event", string(evt.Type)).Msg("No event sink set; dropping event")
		return
	}
	sink(evt)
}
