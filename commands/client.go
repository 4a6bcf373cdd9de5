package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"blogcms/client"
	"blogcms/models"

	"github.com/spf13/cobra"
)

var (
	apiURL      string
	sessionFile string
)

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".blogcms-session"
	}
	return filepath.Join(dir, "blogcms", "session")
}

func defaultAPIURL() string {
	if v := os.Getenv("BLOGCMS_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080/api"
}

// openSession builds a session from the flags and loads any saved token.
func openSession() (*client.Session, error) {
	session := client.NewSession(apiURL, &client.FileTokenStore{Path: sessionFile}, nil)
	if err := session.Init(); err != nil {
		return nil, err
	}
	return session, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		session, err := openSession()
		if err != nil {
			return err
		}
		if err := session.Login(cmd.Context(), email, password); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %d\n", session.DisplayUserID())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a dashboard account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		session, err := openSession()
		if err != nil {
			return err
		}
		user, err := session.Register(cmd.Context(), name, email, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		return session.Teardown()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		user, err := session.Me(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", user.ID, user.Name, user.Email)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		categories, err := session.ListCategories(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCREATED")
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		category, err := session.CreateCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created category %d\n", category.ID)
		return nil
	},
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update ID NAME",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		session, err := openSession()
		if err != nil {
			return err
		}
		category, err := session.UpdateCategory(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Renamed category %d to %s\n", category.ID, category.Name)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a category and the posts filed under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		session, err := openSession()
		if err != nil {
			return err
		}
		return session.DeleteCategory(cmd.Context(), id)
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Manage posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		posts, err := session.ListPosts(cmd.Context())
		if err != nil {
			return err
		}

		me := session.DisplayUserID()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSTATUS\tMINE")
		for _, p := range posts {
			category := "Unknown"
			if p.Category != nil {
				category = p.Category.Name
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", p.ID, p.Title, category, p.Status, p.UserID == me)
		}
		return w.Flush()
	},
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		status, _ := cmd.Flags().GetString("status")
		categoryID, _ := cmd.Flags().GetUint("category")

		session, err := openSession()
		if err != nil {
			return err
		}
		post, err := session.CreatePost(cmd.Context(), models.CreatePostRequest{
			Title:      title,
			Content:    content,
			Status:     models.PostStatus(status),
			CategoryID: categoryID,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created post %d (%s)\n", post.ID, post.Status)
		return nil
	},
}

// postsUpdateCmd replaces the whole post, so fields without a flag keep their
// current values.
var postsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		session, err := openSession()
		if err != nil {
			return err
		}
		current, err := session.GetPost(cmd.Context(), id)
		if err != nil {
			return err
		}

		req := models.UpdatePostRequest{
			Title:            current.Title,
			Content:          current.Content,
			FeaturedImageURL: current.FeaturedImageURL,
			Status:           current.Status,
			CategoryID:       current.CategoryID,
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			req.Title, _ = flags.GetString("title")
		}
		if flags.Changed("content") {
			req.Content, _ = flags.GetString("content")
		}
		if flags.Changed("status") {
			status, _ := flags.GetString("status")
			req.Status = models.PostStatus(status)
		}
		if flags.Changed("category") {
			req.CategoryID, _ = flags.GetUint("category")
		}

		post, err := session.UpdatePost(cmd.Context(), id, req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated post %d (%s)\n", post.ID, post.Status)
		return nil
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		session, err := openSession()
		if err != nil {
			return err
		}
		return session.DeletePost(cmd.Context(), id)
	},
}

func parseIDArg(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd, logoutCmd, whoamiCmd, categoriesCmd, postsCmd} {
		cmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPIURL(), "Base URL of the blog API")
		cmd.PersistentFlags().StringVar(&sessionFile, "session-file", defaultSessionFile(), "Where the session token is kept")
		rootCmd.AddCommand(cmd)
	}

	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	categoriesCmd.AddCommand(categoriesListCmd, categoriesCreateCmd, categoriesUpdateCmd, categoriesDeleteCmd)

	postsCreateCmd.Flags().String("title", "", "Post title")
	postsCreateCmd.Flags().String("content", "", "Post body")
	postsCreateCmd.Flags().String("status", "", "Draft or Published (default Draft)")
	postsCreateCmd.Flags().Uint("category", 0, "Category ID")
	_ = postsCreateCmd.MarkFlagRequired("title")
	_ = postsCreateCmd.MarkFlagRequired("category")

	postsUpdateCmd.Flags().String("title", "", "New title")
	postsUpdateCmd.Flags().String("content", "", "New body")
	postsUpdateCmd.Flags().String("status", "", "Draft or Published")
	postsUpdateCmd.Flags().Uint("category", 0, "New category ID")
	postsCmd.AddCommand(postsListCmd, postsCreateCmd, postsUpdateCmd, postsDeleteCmd)
}
