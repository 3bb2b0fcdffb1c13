package domain

import (
	"errors"
	"strings"
)

// Role identifica al autor de un mensaje dentro de una sesion.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Kind es la modalidad del mensaje. Se guarda tal cual llega en la request.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

var ErrInvalidTurn = errors.New("invalid turn")

// Message es un elemento del historial; el JSON usa "type" para la modalidad.
type Message struct {
	Role    Role   `json:"role"`
	Kind    Kind   `json:"type"`
	Content string `json:"content"`
}

// Turn agrupa el par (user, bot) de un intercambio. Los stores solo aceptan turnos completos.
type Turn struct {
	User Message
	Bot  Message
}

// NewTurn arma el par de mensajes de un intercambio prompt/respuesta.
// El prompt siempre es texto; la respuesta conserva la modalidad pedida.
func NewTurn(prompt, answer string, kind Kind) Turn {
	return Turn{
		User: Message{Role: RoleUser, Kind: KindText, Content: prompt},
		Bot:  Message{Role: RoleBot, Kind: kind, Content: answer},
	}
}

func (t Turn) Validate() error {
	if t.User.Role != RoleUser || t.Bot.Role != RoleBot {
		return ErrInvalidTurn
	}
	if strings.TrimSpace(t.User.Content) == "" || strings.TrimSpace(t.Bot.Content) == "" {
		return ErrInvalidTurn
	}
	return nil
}

// Messages devuelve el turno en orden cronologico.
func (t Turn) Messages() []Message {
	return []Message{t.User, t.Bot}
}
