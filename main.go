package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/meemong/shampooroom/board"
	"github.com/meemong/shampooroom/client"
	"github.com/meemong/shampooroom/config"
	"github.com/meemong/shampooroom/models"
	"github.com/meemong/shampooroom/query"
	"github.com/meemong/shampooroom/store"
	"github.com/meemong/shampooroom/tracker"
	"github.com/meemong/shampooroom/utils"
)

const listGuide = "shampoo-room-list"

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var tokens oauth2.TokenSource
	if cfg.AccessToken != "" {
		tokens = client.StaticToken(cfg.AccessToken)
	}

	api, err := client.New(cfg, tokens, utils.Sugar)
	if err != nil {
		utils.Sugar.Fatalf("client init failed: %v", err)
	}

	b := board.New(api, query.NewCache(time.Hour, utils.Sugar), tracker.New(utils.Sugar), utils.Sugar, cfg.PageLimit)
	st := store.New(cfg, utils.Sugar)

	ctx := context.Background()
	err = run(ctx, cfg, b, st, os.Args[1], os.Args[2:])
	// Drain in-flight view/read beacons before exiting, error path included.
	b.Flush()
	if err != nil {
		utils.Sugar.Errorf("%s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.AppConfig, b *board.Board, st *store.Store, cmd string, args []string) error {
	switch cmd {
	case "list":
		return runList(ctx, cfg, b, st, args)
	case "show":
		return runShow(ctx, b, args)
	case "post":
		return runPost(ctx, b, args)
	case "comment":
		return runComment(ctx, b, args)
	case "like":
		return runLike(ctx, b, args)
	case "region":
		return runRegion(ctx, cfg, st, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: shampooroom <command> [flags]

commands:
  list     browse the feed (-category, -filter, -region)
  show     open a post with its comments (-id)
  post     create a post (-title, -content, -category)
  comment  comment on a post (-id, -content, -parent, -secret)
  like     toggle like on a post (-id)
  region   show or set the saved region filter (-set)`)
}

func runList(ctx context.Context, cfg config.AppConfig, b *board.Board, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	category := fs.String("category", "FREE", "category tab: FREE|POPULAR|EDUCATION|PRODUCT|MARKET")
	filter := fs.String("filter", "NONE", "filter tab: NONE|MINE|COMMENTED|LIKED|REGION")
	region := fs.String("region", "", "comma-separated regions for -filter REGION")
	pages := fs.Int("pages", 1, "number of pages to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *filter == string(board.FilterRegion) && *region == "" {
		saved, err := st.Region(ctx, cfg.UserID)
		if err == nil {
			*region = saved
		}
	}

	if seen, err := st.GuideSeen(ctx, cfg.UserID, listGuide); err == nil && !seen {
		fmt.Println("Tip: switch tabs with -category and -filter; POPULAR sorts the feed by likes.")
		_ = st.MarkGuideSeen(ctx, cfg.UserID, listGuide)
	}

	s := b.NewListSession(board.CategoryTab(*category), board.FilterTab(*filter), *region)
	for i := 1; i < *pages; i++ {
		more, err := s.HasNextPage(ctx)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if err := s.FetchNextPage(ctx); err != nil {
			return err
		}
	}

	posts, err := s.Posts(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		fmt.Printf("#%d [%s] %s  (views %d, likes %d, comments %d) by %s%d\n",
			p.ID, p.Category, p.Title, p.ViewCount, p.LikeCount, p.CommentCount,
			p.User.Name, p.User.AnonymousNumber)
	}
	more, err := s.HasNextPage(ctx)
	if err == nil && more {
		fmt.Println("... more available, pass -pages to fetch further")
	}
	return nil
}

func runShow(ctx context.Context, b *board.Board, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Int64("id", 0, "post id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	s := b.NewDetailSession(*id)
	detail, err := s.Open(ctx)
	if err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("post %d not found", *id)
		}
		return err
	}

	fmt.Printf("#%d [%s] %s\n", detail.ID, detail.Category, detail.Title)
	fmt.Printf("by %s%d at %s  (views %d, likes %d, liked=%v)\n\n",
		detail.User.Name, detail.User.AnonymousNumber, detail.CreatedAt.Format(time.RFC3339),
		detail.ViewCount, detail.LikeCount, detail.IsLiked)
	fmt.Println(detail.Content)

	comments, err := s.Comments(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d comments shown:\n", len(comments))
	for _, cm := range comments {
		fmt.Printf("  [%d] %s%d: %s\n", cm.ID, cm.User.Name, cm.User.AnonymousNumber, cm.Content)
		for _, rp := range cm.Replies {
			fmt.Printf("      [%d] %s%d: %s\n", rp.ID, rp.User.Name, rp.User.AnonymousNumber, rp.Content)
		}
	}
	return nil
}

func runPost(ctx context.Context, b *board.Board, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post body")
	category := fs.String("category", "FREE", "category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := b.CreatePost(ctx, models.CreatePostRequest{
		Title:    *title,
		Content:  *content,
		Category: models.Category(*category),
	})
	if err != nil {
		return err
	}
	fmt.Printf("created post #%d\n", id)
	return nil
}

func runComment(ctx context.Context, b *board.Board, args []string) error {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	id := fs.Int64("id", 0, "post id")
	content := fs.String("content", "", "comment body")
	parent := fs.Int64("parent", 0, "parent comment id for a reply")
	secret := fs.Bool("secret", false, "secret comment")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	var parentID *int64
	if *parent != 0 {
		parentID = parent
	}
	if err := b.NewDetailSession(*id).AddComment(ctx, *content, parentID, *secret); err != nil {
		return err
	}
	fmt.Println("comment created")
	return nil
}

func runLike(ctx context.Context, b *board.Board, args []string) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	id := fs.Int64("id", 0, "post id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	s := b.NewDetailSession(*id)
	if err := s.ToggleLike(ctx); err != nil {
		return err
	}
	detail, err := s.Detail(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("post #%d liked=%v (%d likes)\n", detail.ID, detail.IsLiked, detail.LikeCount)
	return nil
}

func runRegion(ctx context.Context, cfg config.AppConfig, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("region", flag.ExitOnError)
	set := fs.String("set", "", "comma-separated regions to save")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *set != "" {
		if err := st.SaveRegion(ctx, cfg.UserID, utils.SanitizePlain(*set)); err != nil {
			return err
		}
		fmt.Printf("saved region filter: %s\n", *set)
		return nil
	}
	region, err := st.Region(ctx, cfg.UserID)
	if err != nil {
		return err
	}
	if region == "" {
		fmt.Println("no region filter saved")
	} else {
		fmt.Printf("saved region filter: %s\n", region)
	}
	return nil
}
