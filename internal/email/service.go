package email

import (
	"fmt"
	"mime"
	"net/smtp"

	"github.com/example/clothing-store/internal/domain/order"
	"github.com/pkg/errors"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
	send SendFunc
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
		send: smtp.SendMail,
	}
}

// WithSender replaces the SMTP transport.
func (s *Service) WithSender(send SendFunc) *Service {
	s.send = send
	return s
}

// SendOrderNotice tells the shop owner at to about a new order.
func (s *Service) SendOrderNotice(to string, o order.Order) error {
	shortID := o.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	subject := fmt.Sprintf("طلب جديد رقم %s من %s", shortID, o.CustomerName)
	body, err := BuildOrderNoticeBody(o)
	if err != nil {
		return errors.Wrap(err, "render order notice")
	}
	return s.deliver(to, subject, body)
}

func (s *Service) deliver(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, mime.QEncoding.Encode("UTF-8", subject), body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		return errors.Wrapf(err, "send mail via %s", addr)
	}
	return nil
}
