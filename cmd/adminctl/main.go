// Command adminctl is the admin control panel for the gallery, driven from
// the terminal. It talks to the API over HTTP with the same reconciliation
// rules the web panel uses: editing an item captures a snapshot of its
// stored images, and the save request omits the images field entirely when
// the working set still matches that snapshot.
//
// Usage:
//
//	adminctl -api http://localhost:8080/api/v1 login -u admin
//	adminctl list -all
//	adminctl show <id>
//	adminctl create -title "..." -caption "..." -category wedding img1.jpg img2.png
//	adminctl edit <id> [-title ...] [-add img.jpg] [-remove 2] [-clear-images]
//	adminctl delete <id> [-permanent] -yes
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/festivo/festivo-api/internal/adminclient"
	"github.com/festivo/festivo-api/internal/domain/gallery"
	"github.com/festivo/festivo-api/internal/pkg/dataurl"
	"github.com/festivo/festivo-api/internal/pkg/imaging"
)

const tokenFile = ".festivo-token"

func main() {
	apiURL := flag.String("api", envOr("FESTIVO_API_URL", "http://localhost:8080/api/v1"), "API base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	client := adminclient.NewClient(*apiURL)
	if tok := loadToken(); tok != "" {
		client.SetToken(tok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	switch args[0] {
	case "login":
		err = cmdLogin(ctx, client, args[1:])
	case "whoami":
		err = cmdWhoami(ctx, client)
	case "list":
		err = cmdList(ctx, client, args[1:])
	case "show":
		err = cmdShow(ctx, client, args[1:])
	case "create":
		err = cmdCreate(ctx, client, args[1:])
	case "edit":
		err = cmdEdit(ctx, client, args[1:])
	case "delete":
		err = cmdDelete(ctx, client, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: adminctl [-api URL] <login|whoami|list|show|create|edit|delete> [args]")
}

func cmdLogin(ctx context.Context, client *adminclient.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username or email")
	fs.Parse(args)

	if *username == "" {
		return fmt.Errorf("login: -u is required")
	}

	fmt.Fprint(os.Stderr, "password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	resp, err := client.Login(ctx, *username, string(pw))
	if err != nil {
		return err
	}
	if err := saveToken(resp.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Printf("logged in as %s, token valid for %ds\n", resp.User.Username, resp.ExpiresIn)
	return nil
}

func cmdWhoami(ctx context.Context, client *adminclient.Client) error {
	user, err := client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
	return nil
}

func cmdList(ctx context.Context, client *adminclient.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "items per page")
	all := fs.Bool("all", false, "include deactivated items")
	asJSON := fs.Bool("json", false, "raw JSON output")
	fs.Parse(args)

	resp, err := client.ListItems(ctx, *page, *limit, *all)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(resp)
	}

	for _, item := range resp.Items {
		state := "active"
		if !item.IsActive {
			state = "inactive"
		}
		fmt.Printf("%s  %-10s %-8s %2d img  %s\n",
			item.ID, item.Category, state, len(item.Images), item.Title)
	}
	p := resp.Pagination
	fmt.Printf("page %d/%d, %d items total\n", p.CurrentPage, p.TotalPages, p.TotalItems)
	return nil
}

func cmdShow(ctx context.Context, client *adminclient.Client, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "raw JSON output")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("show: expected one item id")
	}

	item, err := client.GetItem(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(item)
	}

	fmt.Printf("id:       %s\n", item.ID)
	fmt.Printf("title:    %s\n", item.Title)
	fmt.Printf("caption:  %s\n", item.Caption)
	fmt.Printf("category: %s\n", item.Category)
	fmt.Printf("date:     %s\n", item.Date.Format("2006-01-02"))
	fmt.Printf("active:   %v\n", item.IsActive)
	for i, img := range item.Images {
		mt, _ := dataurl.MediaType(img.Src)
		fmt.Printf("image %d:  %s, %d bytes decoded\n", i, mt, dataurl.DecodedSize(img.Src))
	}
	return nil
}

func cmdCreate(ctx context.Context, client *adminclient.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "item title")
	caption := fs.String("caption", "", "item caption")
	category := fs.String("category", "", "category (wedding, birthday, corporate, graduation, general)")
	date := fs.String("date", "", "event date, YYYY-MM-DD")
	inactive := fs.Bool("inactive", false, "create as deactivated")
	fs.Parse(args)

	if *title == "" || *caption == "" {
		return fmt.Errorf("create: -title and -caption are required")
	}

	session := adminclient.NewCreateSession()
	if err := addFiles(session, fs.Args()); err != nil {
		return err
	}
	if err := session.CheckLimits(); err != nil {
		return err
	}

	req := &gallery.CreateItemRequest{
		Title:    *title,
		Caption:  *caption,
		Category: *category,
		Images:   session.CreateImages(),
	}
	if *date != "" {
		t, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		req.Date = &gallery.EventDate{Time: t}
	}
	if *inactive {
		active := false
		req.IsActive = &active
	}

	item, err := client.CreateItem(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", item.ID)
	return nil
}

func cmdEdit(ctx context.Context, client *adminclient.Client, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title := fs.String("title", "", "new title")
	caption := fs.String("caption", "", "new caption")
	category := fs.String("category", "", "new category")
	date := fs.String("date", "", "new event date, YYYY-MM-DD")
	activate := fs.Bool("activate", false, "reactivate the item")
	deactivate := fs.Bool("deactivate", false, "deactivate the item")
	var adds multiFlag
	fs.Var(&adds, "add", "image file to add (repeatable)")
	var removes multiFlag
	fs.Var(&removes, "remove", "index of a selected image to drop (repeatable)")
	clearImages := fs.Bool("clear-images", false, "remove every image from the item")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("edit: expected one item id")
	}

	item, err := client.GetItem(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	session := adminclient.NewEditSession(item)
	if *clearImages {
		for len(session.Selected()) > 0 {
			if err := session.Remove(0); err != nil {
				return err
			}
		}
	}
	indices := make([]int, 0, len(removes))
	for _, raw := range removes {
		i, err := parseIndex(raw, len(session.Selected()))
		if err != nil {
			return err
		}
		indices = append(indices, i)
	}
	if err := session.RemoveAll(indices); err != nil {
		return err
	}
	if err := addFiles(session, adds); err != nil {
		return err
	}
	if err := session.CheckLimits(); err != nil {
		return err
	}

	req := &gallery.UpdateItemRequest{
		Images: session.ImagePatch(),
	}
	if *title != "" {
		req.Title = title
	}
	if *caption != "" {
		req.Caption = caption
	}
	if *category != "" {
		req.Category = category
	}
	if *date != "" {
		t, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		req.Date = &gallery.EventDate{Time: t}
	}
	if *activate && *deactivate {
		return fmt.Errorf("edit: -activate and -deactivate are mutually exclusive")
	}
	if *activate || *deactivate {
		active := *activate
		req.IsActive = &active
	}

	if req.Title == nil && req.Caption == nil && req.Category == nil &&
		req.Date == nil && req.IsActive == nil && req.Images == nil {
		fmt.Println("nothing to update")
		return nil
	}

	updated, err := client.UpdateItem(ctx, item.ID.String(), req)
	if err != nil {
		return err
	}
	if req.Images == nil {
		fmt.Printf("updated %s (images untouched)\n", updated.ID)
	} else {
		fmt.Printf("updated %s, %d images\n", updated.ID, len(updated.Images))
	}
	return nil
}

func cmdDelete(ctx context.Context, client *adminclient.Client, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	permanent := fs.Bool("permanent", false, "remove the row instead of deactivating")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("delete: expected one item id")
	}
	id := fs.Arg(0)

	if !*yes {
		verb := "deactivate"
		if *permanent {
			verb = "permanently delete"
		}
		fmt.Printf("%s item %s? [y/N] ", verb, id)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := client.DeleteItem(ctx, id, *permanent); err != nil {
		return err
	}
	if *permanent {
		fmt.Printf("removed %s\n", id)
	} else {
		fmt.Printf("deactivated %s\n", id)
	}
	return nil
}

// addFiles runs the selected paths through recompression and adds the
// survivors to the session. Ingest failures are reported per file and do not
// abort the batch.
func addFiles(session *adminclient.EditSession, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	ing := adminclient.NewIngestor(imaging.DefaultConfig())
	images, errs := ing.IngestFiles(paths)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "skipped: %v\n", err)
	}
	if len(images) == 0 && len(errs) > 0 {
		return fmt.Errorf("no usable images in %d file(s)", len(paths))
	}
	for _, img := range images {
		session.Add(img)
	}
	return nil
}

func parseIndex(s string, n int) (int, error) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range (have %d images)", i, n)
	}
	return i, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(s string) error { *m = append(*m, s); return nil }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadToken() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(home + "/" + tokenFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(token string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return os.WriteFile(home+"/"+tokenFile, []byte(token), 0o600)
}
