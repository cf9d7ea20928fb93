//go:build integration

package transport_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra/transport"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type AMQPTransportTestSuite struct {
	suite.Suite
	container testcontainers.Container
	conn      *amqp.Connection
	transport *transport.AMQPTransport
}

func TestAMQPTransportSuite(t *testing.T) {
	suite.Run(t, new(AMQPTransportTestSuite))
}

func (s *AMQPTransportTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	s.Require().NoError(err)

	s.conn, err = amqp.Dial(fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()))
	s.Require().NoError(err)
	s.transport = transport.NewAMQPTransport(s.conn, "waitlist.test", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *AMQPTransportTestSuite) TearDownSuite() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *AMQPTransportTestSuite) TestDeliverPublishesToChannelQueue() {
	msg := shared.OutboundMessage{
		RecordID:   uuid.New(),
		EntryID:    uuid.New(),
		Channel:    waitlist.NotificationEmail,
		Category:   "confirmation",
		TemplateID: "waitlist-confirmation",
		Recipient:  "camille@example.com",
		Subject:    "Inscription confirmée",
		Content:    "Bonjour Camille",
		CreatedAt:  time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}
	s.Equal("waitlist.test.email", s.transport.QueueName(msg))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Require().NoError(s.transport.Deliver(ctx, msg))

	ch, err := s.conn.Channel()
	s.Require().NoError(err)
	defer func() { _ = ch.Close() }()

	delivery, ok, err := ch.Get("waitlist.test.email", true)
	s.Require().NoError(err)
	s.Require().True(ok, "message should be queued")
	s.Equal("application/json", delivery.ContentType)
	s.Equal(msg.RecordID.String(), delivery.MessageId)
	s.Equal("confirmation", delivery.Type)
	s.Equal(amqp.Persistent, delivery.DeliveryMode)

	var got shared.OutboundMessage
	s.Require().NoError(json.Unmarshal(delivery.Body, &got))
	if diff := cmp.Diff(msg, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		s.Failf("published message mismatch", "(-want +got):\n%s", diff)
	}
}
