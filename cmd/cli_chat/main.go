package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"genchat/internal/config"
	"genchat/internal/db"
	"genchat/internal/domain"
	"genchat/internal/llm"
	"genchat/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	sessionRepo, closeStore, err := db.OpenSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	textChain, imageChain := llm.NewProviderChains(cfg, &http.Client{})
	gateway := service.NewFallbackGateway(logger, service.GatewayConfig{
		Text:         textChain,
		Image:        imageChain,
		TextTimeout:  cfg.TextTimeout,
		ImageTimeout: cfg.ImageTimeout,
	}, nil)
	chatSvc := service.NewChatSessionService(sessionRepo, logger, cfg.StoreTimeout)

	fmt.Println("---- Modo Chat ----")
	fmt.Println("Escribe un prompt, '/img <prompt>' para una imagen, '/chats' para listar, 'salir' para terminar.")

	var sessionID string
	for {
		fmt.Print("Tu > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "salir") || strings.EqualFold(line, "exit"):
			fmt.Println("Saliendo del chat...")
			return
		case line == "/chats":
			listChats(ctx, chatSvc)
			continue
		}

		prompt, kind := line, domain.KindText
		if rest, ok := strings.CutPrefix(line, "/img "); ok {
			prompt, kind = strings.TrimSpace(rest), domain.KindImage
		}

		shown, answer, err := generate(ctx, gateway, prompt, kind)
		if err != nil {
			if errors.Is(err, service.ErrServiceUnavailable) {
				fmt.Println("Bot > ❌ servicio no disponible")
			} else {
				fmt.Printf("error generando respuesta: %v\n", err)
			}
			continue
		}
		fmt.Printf("Bot > %s\n", shown)

		id, err := chatSvc.SaveTurn(ctx, service.SaveTurnInput{
			Prompt:    prompt,
			Answer:    answer,
			Kind:      kind,
			SessionID: sessionID,
		})
		if err != nil {
			fmt.Printf("error guardando turno: %v\n", err)
			continue
		}
		if sessionID == "" {
			fmt.Printf("(sesion %s)\n", id)
		}
		sessionID = id
	}
}

// generate devuelve lo que se muestra en pantalla y lo que se guarda en la sesion.
func generate(ctx context.Context, gateway *service.FallbackGateway, prompt string, kind domain.Kind) (string, string, error) {
	if kind == domain.KindText {
		res, err := gateway.GenerateText(ctx, prompt)
		if err != nil {
			return "", "", err
		}
		return res.Answer, res.Answer, nil
	}
	res, err := gateway.GenerateImage(ctx, prompt)
	if err != nil {
		return "", "", err
	}
	if res.Image.IsReference() {
		return res.Image.URL, res.Image.URL, nil
	}
	dataURI := "data:" + res.Image.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(res.Image.Data)
	return fmt.Sprintf("[imagen %s, %d bytes]", res.Image.MIMEType, len(res.Image.Data)), dataURI, nil
}

func listChats(ctx context.Context, chatSvc *service.ChatSessionService) {
	sessions, err := chatSvc.ListSessions(ctx)
	if err != nil {
		fmt.Printf("error listando chats: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		fmt.Println("No hay chats guardados.")
		return
	}
	for i, s := range sessions {
		fmt.Printf("[%d] %s (ID: %s)\n", i+1, s.Title, s.ID)
	}
}
