package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/orakh/orakhui/internal/chat"
	"github.com/orakh/orakhui/internal/client"
	"github.com/orakh/orakhui/internal/config"
	"github.com/orakh/orakhui/internal/orchestrator"
	"github.com/orakh/orakhui/internal/prober"
	"github.com/orakh/orakhui/internal/state"
	"github.com/orakh/orakhui/internal/store"
	"github.com/orakh/orakhui/storage"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("105"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

func main() {
	ctx := context.Background()
	godotenv.Load(".env")

	cfg := config.NewConfig()

	db, err := storage.NewSqliteDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %s", err)
	}
	kv, err := storage.NewKeyValues(db)
	if err != nil {
		log.Fatalf("Failed to init storage: %s", err)
	}

	st := store.New(kv)
	apiClient := client.NewClient(cfg, st)
	orch := orchestrator.New(apiClient, prober.New(cfg.BaseURL), st)

	if orch.State().Current() == nil {
		orch.CreateChat("")
	}

	fmt.Println(titleStyle.Render("Orakh Vox Nemis"))
	renderThread(orch.State().Current())

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, orch, apiClient, reader, line); quit {
				return
			}
			continue
		}

		current := orch.State().Current()
		if current == nil {
			fmt.Println(errorStyle.Render("No hay conversación activa. Usa /nuevo."))
			continue
		}
		if err := orch.SendMessage(ctx, current.ID, line); err != nil {
			fmt.Println(errorStyle.Render(sendErrorText(err)))
			continue
		}
		renderLastExchange(orch.State().Current())
	}
}

func runCommand(ctx context.Context, orch *orchestrator.Orchestrator, apiClient *client.Client, reader *bufio.Reader, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/salir":
		return true

	case "/nuevo":
		orch.CreateChat(strings.Join(args, " "))
		renderThread(orch.State().Current())

	case "/lista":
		renderGroups(orch.State())

	case "/abrir":
		if thread := threadByIndex(orch, args); thread != nil {
			if err := orch.SelectChat(thread.ID); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				return false
			}
			renderThread(orch.State().Current())
		}

	case "/borrar":
		thread := threadByIndex(orch, args)
		if thread == nil {
			return false
		}
		// Irreversible, so ask first.
		fmt.Printf("¿Eliminar %q? (si/no): ", thread.Title)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "si" {
			return false
		}
		if err := orch.DeleteChat(thread.ID); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}

	case "/profundizar":
		current := orch.State().Current()
		if current == nil {
			return false
		}
		msgID := lastAssistantID(current)
		if msgID == "" {
			fmt.Println(dimStyle.Render("Nada que profundizar todavía."))
			return false
		}
		if err := orch.Elaborate(ctx, current.ID, msgID); err != nil {
			fmt.Println(errorStyle.Render(sendErrorText(err)))
			return false
		}
		renderLastExchange(orch.State().Current())

	case "/limpiar":
		current := orch.State().Current()
		if current == nil {
			return false
		}
		if err := orch.ClearMemory(ctx, current.ID); err != nil {
			fmt.Println(errorStyle.Render("No se pudo limpiar la memoria. Intenta nuevamente."))
			return false
		}
		renderThread(orch.State().Current())

	case "/registro", "/login":
		if len(args) != 2 {
			fmt.Println(errorStyle.Render("Uso: " + cmd + " email contraseña"))
			return false
		}
		var msg string
		var err error
		if cmd == "/registro" {
			msg, err = apiClient.Register(ctx, args[0], args[1])
		} else {
			_, err = apiClient.Login(ctx, args[0], args[1])
			msg = "Sesión iniciada."
		}
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			return false
		}
		fmt.Println(dimStyle.Render(msg))

	case "/consultas":
		status := apiClient.GetQueryStatus(ctx)
		fmt.Println(dimStyle.Render(fmt.Sprintf("Consultas: %d de %d restantes", status.Remaining, status.Limit)))

	case "/volumen":
		if len(args) == 0 {
			fmt.Println(dimStyle.Render(fmt.Sprintf("Volumen: %.0f%%", apiClient.Store.Volume()*100)))
			return false
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil || v < 0 || v > 1 {
			fmt.Println(errorStyle.Render("Uso: /volumen 0.0-1.0"))
			return false
		}
		apiClient.Store.SetVolume(v)

	default:
		fmt.Println(dimStyle.Render("Comandos: /nuevo /lista /abrir /borrar /profundizar /limpiar /registro /login /consultas /volumen /salir"))
	}
	return false
}

func sendErrorText(err error) string {
	switch err {
	case orchestrator.ErrEmptyMessage:
		return "Escribe un mensaje primero."
	case orchestrator.ErrBusy:
		return "Espera la respuesta anterior."
	default:
		return err.Error()
	}
}

func threadByIndex(orch *orchestrator.Orchestrator, args []string) *chat.Thread {
	sorted := orch.State().Sorted()
	if len(args) != 1 {
		fmt.Println(errorStyle.Render("Indica el número de la conversación."))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(sorted) {
		fmt.Println(errorStyle.Render("Conversación no encontrada."))
		return nil
	}
	return sorted[n-1]
}

func lastAssistantID(thread *chat.Thread) string {
	for i := len(thread.Messages) - 1; i >= 0; i-- {
		if thread.Messages[i].Role == chat.RoleAssistant && !thread.Messages[i].IsWelcome {
			return thread.Messages[i].ID
		}
	}
	return ""
}

func renderThread(thread *chat.Thread) {
	if thread == nil {
		return
	}
	fmt.Println(titleStyle.Render(thread.Title))
	for _, msg := range thread.Messages {
		renderMessage(msg)
	}
}

func renderLastExchange(thread *chat.Thread) {
	if thread == nil || len(thread.Messages) == 0 {
		return
	}
	renderMessage(thread.Messages[len(thread.Messages)-1])
}

func renderMessage(msg chat.Message) {
	style := userStyle
	prefix := "tú"
	if msg.Role == chat.RoleAssistant {
		style = assistantStyle
		prefix = "orakh"
	}
	fmt.Printf("%s %s\n", dimStyle.Render(prefix+":"), style.Render(strings.TrimSpace(msg.Content)))
}

func renderGroups(s *state.AppState) {
	sorted := s.Sorted()
	if len(sorted) == 0 {
		fmt.Println(dimStyle.Render("No hay conversaciones guardadas."))
		return
	}
	index := make(map[string]int, len(sorted))
	for i, t := range sorted {
		index[t.ID] = i + 1
	}
	for _, group := range chat.GroupByDate(sorted, time.Now()) {
		fmt.Println(titleStyle.Render(group.Label))
		for _, t := range group.Threads {
			preview := t.LastMessagePreview
			if preview != "" {
				preview = " · " + preview
			}
			fmt.Printf("  %d. %s%s\n", index[t.ID], t.Title, dimStyle.Render(preview))
		}
	}
}
