package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/wendydelivery/wendy-courier/internal/courier"
)

func newLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)
	return logger.With("service", "courier-app")
}

// app holds the interactive state of the courier terminal
type app struct {
	session *courier.Session
	chat    *courier.ChatSession
	log     *slog.Logger
	in      *bufio.Scanner
}

func main() {
	// .env is optional for the client
	_ = godotenv.Load()

	logger := newLogger()

	baseURL := os.Getenv("COURIER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	api := courier.NewClient(baseURL)
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("Wendy Entregador")
	fmt.Println("Login (any filled-in email and password works)")

	session := login(api, logger, in)
	a := &app{session: session, log: logger, in: in}

	fmt.Println(`Type "help" for commands.`)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if !a.dispatch(line) {
			break
		}
	}

	a.teardown()
}

func login(api *courier.Client, logger *slog.Logger, in *bufio.Scanner) *courier.Session {
	for {
		email := prompt(in, "email: ")
		password := prompt(in, "password: ")

		session, err := courier.Login(courier.Credentials{Email: email, Password: password}, api, nil, logger)
		if err != nil {
			fmt.Println("login failed:", err)
			continue
		}
		driver, _ := session.Driver()
		fmt.Printf("Welcome, %s (rating %.1f)\n", driver.Name, driver.Rating)
		return session
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(in.Text())
}

// dispatch runs one command; returns false to quit
func (a *app) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		a.printHelp()
	case "status":
		a.printStatus()
	case "online":
		a.session.SetOnline(true)
		fmt.Println("You are online and can receive orders")
	case "offline":
		a.session.SetOnline(false)
		fmt.Println("You are offline")
	case "offers":
		a.printOffers()
	case "accept":
		a.accept(args)
	case "advance":
		a.advance()
	case "cancel":
		a.cancel()
	case "rate":
		a.rate(args)
	case "dismiss":
		if err := a.session.Deliveries().DismissRating(); err != nil {
			fmt.Println(err)
		} else {
			fmt.Println("Rating dismissed, back to home")
		}
	case "chat":
		a.openChat(args)
	case "say":
		a.say(args)
	case "closechat":
		a.closeChat()
	case "earnings":
		a.printEarnings(args)
	case "profile":
		a.printProfile()
	case "set":
		a.setProfileField(args)
	case "logout", "quit", "exit":
		return false
	default:
		fmt.Println("unknown command, type \"help\"")
	}
	return true
}

func (a *app) printHelp() {
	fmt.Println(`commands:
  online | offline          toggle availability
  status                    session and delivery status
  offers                    list available deliveries
  accept <id>               accept a delivery offer
  advance                   confirm the next delivery step
  cancel                    cancel the active delivery
  rate <stars> [comment]    rate the customer after delivery
  dismiss                   skip the rating step
  chat <customer id>        open the chat with a customer
  say <text>                send a chat message
  closechat                 close the open chat
  earnings [today|week|month]
  profile                   show profile
  set <field> <value>       edit a profile field
  logout                    end the session`)
}

func (a *app) printStatus() {
	driver, err := a.session.Driver()
	if err != nil {
		fmt.Println(err)
		return
	}
	state := "offline"
	if a.session.Online() {
		state = "online"
	}
	fmt.Printf("%s — %s\n", driver.Name, state)

	if active := a.session.Deliveries().Active(); active != nil {
		info := courier.StatusTable[active.Status]
		fmt.Printf("delivery #%d: %s — %s\n", active.ID, info.Title, info.Description)
	}
}

func (a *app) printOffers() {
	offers := a.session.Offers()
	if len(offers) == 0 {
		fmt.Println("No orders available. Go online to receive orders.")
		return
	}
	for _, offer := range offers {
		fmt.Printf("#%d %s | %s -> %s | %s (%s) | %s, %s | %s\n",
			offer.ID, offer.Items, offer.Pickup, offer.Dropoff,
			offer.Payment, offer.PaymentMethod,
			offer.Distance, offer.EstimatedTime, offer.CustomerName)
	}
}

func (a *app) accept(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: accept <id>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("invalid offer id")
		return
	}

	active, err := a.session.AcceptOffer(uint(id))
	if err != nil {
		fmt.Println(err)
		return
	}
	info := courier.StatusTable[active.Status]
	fmt.Printf("Accepted delivery #%d: %s — %s\n", active.ID, info.Title, info.Description)
}

func (a *app) advance() {
	status, err := a.session.Deliveries().Advance()
	if err != nil {
		fmt.Println(err)
		return
	}
	info := courier.StatusTable[status]
	fmt.Printf("%s — %s\n", info.Title, info.Description)
	if status == courier.StatusDelivered {
		fmt.Println(`Finish with "rate <stars> [comment]" or "dismiss"`)
	}
}

func (a *app) cancel() {
	answer := prompt(a.in, "Cancel this delivery? (y/n) ")
	if answer != "y" && answer != "yes" {
		return
	}
	if err := a.session.Deliveries().Cancel(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Delivery cancelled")
}

func (a *app) rate(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: rate <stars> [comment]")
		return
	}
	stars, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("invalid star value")
		return
	}
	comment := strings.Join(args[1:], " ")

	if err := a.session.Deliveries().CompleteWithRating(context.Background(), stars, comment); err != nil {
		fmt.Println("rating not sent:", err)
		return
	}
	fmt.Println("Rating submitted, back to home")
}

func (a *app) openChat(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: chat <customer id>")
		return
	}
	customerID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("invalid customer id")
		return
	}
	if a.chat != nil {
		a.chat.Close()
		a.chat = nil
	}

	var orderRef *uint
	if active := a.session.Deliveries().Active(); active != nil {
		order := active.ID
		orderRef = &order
	}

	driver, _ := a.session.Driver()
	printed := 0
	session, err := a.session.Chat().Open(context.Background(), uint(customerID), orderRef, func(messages []courier.Message) {
		// Print only what is new since the last change
		for ; printed < len(messages); printed++ {
			msg := messages[printed]
			who := "customer"
			if msg.SenderID == driver.ID {
				who = "you"
			}
			fmt.Printf("[chat %s] %s: %s\n", msg.Timestamp.Format("15:04"), who, msg.Content)
		}
		if printed > len(messages) {
			printed = len(messages)
		}
	})
	if err != nil {
		fmt.Println("could not open chat:", err)
		return
	}
	a.chat = session
	fmt.Printf("Chat open (conversation %d). Send with \"say <text>\".\n", session.ConversationID())
}

func (a *app) say(args []string) {
	if a.chat == nil {
		fmt.Println("no open chat")
		return
	}
	if len(args) == 0 {
		fmt.Println("usage: say <text>")
		return
	}
	if err := a.chat.Send(context.Background(), strings.Join(args, " ")); err != nil {
		fmt.Println("message not sent:", err)
	}
}

func (a *app) closeChat() {
	if a.chat == nil {
		fmt.Println("no open chat")
		return
	}
	a.chat.Close()
	a.chat = nil
	fmt.Println("Chat closed")
}

func (a *app) printEarnings(args []string) {
	period := courier.PeriodToday
	if len(args) == 1 {
		period = courier.EarningsPeriod(args[0])
	}

	summary, ok := courier.EarningsFor(period)
	if !ok {
		fmt.Println("usage: earnings [today|week|month]")
		return
	}

	fmt.Printf("%s: R$ %.2f | %d deliveries | %.1fh | R$ %.2f avg | R$ %.2f/h\n",
		summary.Period, summary.Total, summary.Deliveries, summary.Hours,
		summary.AvgPerDelivery, summary.PerHour())
	for _, entry := range summary.Details {
		fmt.Printf("  %s %-16s R$ %6.2f  %s  %s\n",
			entry.Time, entry.Type, entry.Amount, entry.Distance, entry.Customer)
	}
}

func (a *app) printProfile() {
	driver, err := a.session.Driver()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf(`name:          %s
email:         %s
phone:         %s
cpf:           %s
address:       %s
vehicle:       %s %s (%s)
rating:        %.1f
deliveries:    %d
`, driver.Name, driver.Email, driver.Phone, driver.CPF, driver.Address,
		driver.VehicleType, driver.VehicleModel, driver.VehiclePlate,
		driver.Rating, driver.TotalDeliveries)
}

func (a *app) setProfileField(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: set <name|email|phone|cpf|address|plate|model> <value>")
		return
	}
	value := strings.Join(args[1:], " ")

	var upd courier.ProfileUpdate
	switch args[0] {
	case "name":
		upd.Name = &value
	case "email":
		upd.Email = &value
	case "phone":
		upd.Phone = &value
	case "cpf":
		upd.CPF = &value
	case "address":
		upd.Address = &value
	case "plate":
		upd.VehiclePlate = &value
	case "model":
		upd.VehicleModel = &value
	default:
		fmt.Println("unknown field:", args[0])
		return
	}

	if err := a.session.UpdateProfile(upd); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Profile updated")
}

func (a *app) teardown() {
	if a.chat != nil {
		a.chat.Close()
	}
	a.session.Logout()
	fmt.Println("Logged out")
}
