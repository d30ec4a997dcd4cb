// Package console drives the interactive wishlist menu over any reader and
// writer pair. The logged-in user is carried in an explicit Session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_wishlist/internal/domain"
)

// API is the subset of the HTTP client the menu needs.
type API interface {
	Login(ctx context.Context, username string) (bool, error)
	Register(ctx context.Context, username string) (bool, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id int64) (domain.Hotel, error)
	ListWishLists(ctx context.Context, username string) ([]domain.WishList, error)
	GetWishList(ctx context.Context, username, name string) (domain.WishList, error)
	CreateWishList(ctx context.Context, username, name string) (domain.WishList, error)
	DeleteWishList(ctx context.Context, username, name string) error
	AddHotel(ctx context.Context, username, name string, hotelID int64) (domain.WishList, error)
	RemoveHotel(ctx context.Context, username, name string, hotelID int64) (domain.WishList, error)
	SharingCode(ctx context.Context, username, name string) (string, error)
	GetShared(ctx context.Context, code string) (domain.WishList, error)
}

type Session struct {
	Username string
}

func (s Session) LoggedIn() bool { return s.Username != "" }

type Runner struct {
	api API
	in  *bufio.Scanner
	out io.Writer
}

func New(api API, in io.Reader, out io.Writer) *Runner {
	return &Runner{api: api, in: bufio.NewScanner(in), out: out}
}

var errQuit = errors.New("quit")

const (
	loginMenu = `Welcome!
1. Login
2. Register
3. Exit
`
	mainMenu = `
Choose an option:
1. View all hotels
2. View a specific hotel
3. View all wishlists
4. View a wishlist by name
5. Create a new wishlist
6. Remove a wishlist
7. Add a hotel to a wishlist
8. Remove a hotel from a wishlist
9. Share a wishlist
10. View a shared wishlist
11. Logout
12. Exit
`
)

// Run loops until the user exits or input ends.
func (r *Runner) Run(ctx context.Context) error {
	var s Session
	for {
		var err error
		if s.LoggedIn() {
			s, err = r.mainStep(ctx, s)
		} else {
			s, err = r.loginStep(ctx)
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			r.println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *Runner) println(a ...any)          { fmt.Fprintln(r.out, a...) }
func (r *Runner) printf(f string, a ...any) { fmt.Fprintf(r.out, f, a...) }

func (r *Runner) prompt(p string) (string, error) {
	r.printf("%s", p)
	return r.line()
}

func (r *Runner) line() (string, error) {
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.in.Text()), nil
}

// choice skips blank lines.
func (r *Runner) choice() (string, error) {
	for {
		c, err := r.line()
		if err != nil || c != "" {
			return c, err
		}
	}
}

func (r *Runner) loginStep(ctx context.Context) (Session, error) {
	r.printf("%s", loginMenu)
	c, err := r.choice()
	if err != nil {
		return Session{}, err
	}
	var (
		action func(context.Context, string) (bool, error)
		verb   string
	)
	switch c {
	case "1":
		action, verb = r.api.Login, "login"
	case "2":
		action, verb = r.api.Register, "register"
	case "3":
		return Session{}, errQuit
	default:
		r.println("Invalid option. Please try again.")
		return Session{}, nil
	}

	u, err := r.prompt("Enter username to " + verb + ": ")
	if err != nil {
		return Session{}, err
	}
	if u == "" {
		r.println("Username cannot be empty. Please try again.")
		return Session{}, nil
	}
	ok, err := action(ctx, u)
	switch {
	case err != nil:
		r.report(err)
	case !ok && c == "1":
		r.printf("User %q does not exist.\n", u)
	case !ok:
		r.printf("Username %q is already taken.\n", u)
	default:
		r.printf("Welcome, %s!\n", u)
		return Session{Username: u}, nil
	}
	return Session{}, nil
}

func (r *Runner) mainStep(ctx context.Context, s Session) (Session, error) {
	r.printf("%s", mainMenu)
	c, err := r.choice()
	if err != nil {
		return s, err
	}
	switch c {
	case "1":
		return s, r.viewHotels(ctx)
	case "2":
		return s, r.viewHotel(ctx)
	case "3":
		return s, r.viewWishLists(ctx, s)
	case "4":
		return s, r.withName("Enter wishlist name: ", func(name string) error {
			wl, err := r.api.GetWishList(ctx, s.Username, name)
			if err == nil {
				r.printWishList(wl)
			}
			return err
		})
	case "5":
		return s, r.withName("Enter new wishlist name: ", func(name string) error {
			wl, err := r.api.CreateWishList(ctx, s.Username, name)
			if err == nil {
				r.printf("Created wishlist %q.\n", wl.Name)
			}
			return err
		})
	case "6":
		return s, r.withName("Enter the name of the wishlist to remove: ", func(name string) error {
			err := r.api.DeleteWishList(ctx, s.Username, name)
			if err == nil {
				r.printf("Removed wishlist %q.\n", name)
			}
			return err
		})
	case "7":
		return s, r.withMember("Enter the wishlist name to add hotel to: ", func(name string, id int64) error {
			wl, err := r.api.AddHotel(ctx, s.Username, name, id)
			if err == nil {
				r.printWishList(wl)
			}
			return err
		})
	case "8":
		return s, r.withMember("Enter the wishlist name to remove hotel from: ", func(name string, id int64) error {
			wl, err := r.api.RemoveHotel(ctx, s.Username, name, id)
			if err == nil {
				r.printWishList(wl)
			}
			return err
		})
	case "9":
		return s, r.withName("Enter the wishlist name to share: ", func(name string) error {
			code, err := r.api.SharingCode(ctx, s.Username, name)
			if err == nil {
				r.printf("Sharing code: %s\n", code)
			}
			return err
		})
	case "10":
		return s, r.withName("Enter the sharing code to view the wishlist: ", func(code string) error {
			wl, err := r.api.GetShared(ctx, code)
			if err == nil {
				r.printWishList(wl)
			}
			return err
		})
	case "11":
		r.println("You have logged out.")
		return Session{}, nil
	case "12":
		return s, errQuit
	default:
		r.println("Invalid option. Please try again.")
		return s, nil
	}
}

// withName reads one line and runs fn; API failures are printed, input failures returned.
func (r *Runner) withName(p string, fn func(string) error) error {
	v, err := r.prompt(p)
	if err != nil {
		return err
	}
	r.report(fn(v))
	return nil
}

func (r *Runner) withMember(p string, fn func(string, int64) error) error {
	return r.withName(p, func(name string) error {
		id, err := r.readHotelID()
		if err != nil {
			return err
		}
		return fn(name, id)
	})
}

func (r *Runner) readHotelID() (int64, error) {
	v, err := r.prompt("Enter hotel ID: ")
	if err != nil {
		return 0, err
	}
	id, perr := strconv.ParseInt(v, 10, 64)
	if perr != nil {
		return 0, fmt.Errorf("invalid hotel ID %q: %w", v, domain.ErrMalformed)
	}
	return id, nil
}

func (r *Runner) viewHotels(ctx context.Context) error {
	hs, err := r.api.ListHotels(ctx)
	if err != nil {
		r.report(err)
		return nil
	}
	if len(hs) == 0 {
		r.println("No hotels found.")
	}
	for _, h := range hs {
		r.printHotel(h)
	}
	return nil
}

func (r *Runner) viewHotel(ctx context.Context) error {
	id, err := r.readHotelID()
	if errors.Is(err, domain.ErrMalformed) {
		r.report(err)
		return nil
	}
	if err != nil {
		return err
	}
	h, err := r.api.GetHotel(ctx, id)
	if err != nil {
		r.report(err)
		return nil
	}
	r.printHotel(h)
	return nil
}

func (r *Runner) viewWishLists(ctx context.Context, s Session) error {
	wls, err := r.api.ListWishLists(ctx, s.Username)
	if err != nil {
		r.report(err)
		return nil
	}
	if len(wls) == 0 {
		r.println("You have no wishlists.")
	}
	for _, wl := range wls {
		r.printWishList(wl)
	}
	return nil
}

func (r *Runner) printHotel(h domain.Hotel) {
	r.printf("#%d %s (%d stars)", h.ID, h.Name, h.Stars)
	if len(h.Facilities) > 0 {
		r.printf(" [%s]", strings.Join(h.Facilities, ", "))
	}
	r.println()
}

func (r *Runner) printWishList(wl domain.WishList) {
	r.printf("Wishlist %q by %s, %d hotel(s)\n", wl.Name, wl.Owner, len(wl.Hotels))
	for _, h := range wl.Hotels {
		r.printf("  ")
		r.printHotel(h)
	}
}

func (r *Runner) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
	case errors.Is(err, domain.ErrMalformed):
		r.printf("Invalid input: %v\n", err)
	case errors.Is(err, domain.ErrNotFound):
		r.printf("Not found: %v\n", err)
	case errors.Is(err, domain.ErrConflict):
		r.printf("Conflict: %v\n", err)
	default:
		log.Warn().Err(err).Msg("api call failed")
		r.printf("Request failed: %v\n", err)
	}
}
