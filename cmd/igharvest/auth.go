package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igharvest/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Instagram credentials",
	Long: `Manage stored Instagram credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store Instagram credentials securely",
	Long: `Store Instagram credentials securely in the system keychain or encrypted file.

You will be prompted for:
  - Instagram username (if not provided)
  - Session ID (from the sessionid cookie)
  - CSRF Token (from the csrftoken cookie)
  - User ID (from the ds_user_id cookie, needed for --self harvests)

To get these values:
1. Log into Instagram in your browser
2. Open Developer Tools (F12)
3. Go to Application/Storage > Cookies
4. Copy the sessionid, csrftoken and ds_user_id values`,
	Example: `  # Interactive login
  igharvest auth login

  # Login with username
  igharvest auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove stored credentials",
	Long: `Remove stored Instagram credentials.

If no username is provided and only one account is stored, that account
is removed after confirmation.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// accountsCmd represents the auth list command
var accountsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Instagram accounts with sanitized credential information.`,
	Run:   runAccounts,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(accountsCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Print("Instagram username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fatal("failed to read username", err)
		}
		username = strings.TrimSpace(input)
	}

	if username == "" {
		fatal("username is required", nil)
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Printf("Account %q already exists. Update credentials? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your cookie values (hidden as you type):")

	fmt.Print("sessionid cookie value: ")
	sessionID, err := readPassword()
	if err != nil {
		fatal("failed to read session ID", err)
	}
	if sessionID == "" {
		fatal("session ID is required", nil)
	}

	fmt.Print("csrftoken cookie value: ")
	csrfToken, err := readPassword()
	if err != nil {
		fatal("failed to read CSRF token", err)
	}
	if csrfToken == "" {
		fatal("CSRF token is required", nil)
	}

	fmt.Print("ds_user_id cookie value (optional, enables --self): ")
	dsUserID, _ := reader.ReadString('\n')
	dsUserID = strings.TrimSpace(dsUserID)

	fmt.Print("User Agent (press Enter to use default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		DSUserID:     dsUserID,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}

	if err := manager.Store(account); err != nil {
		fatal("failed to store credentials", err)
	}

	fmt.Printf("\nCredentials stored for %s\n", username)
	fmt.Println("\nHarvest any public profile:")
	fmt.Println("  $ igharvest harvest <user_id>")
	if dsUserID != "" {
		fmt.Println("\nOr harvest your own profile:")
		fmt.Println("  $ igharvest harvest --self")
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			fmt.Println("No stored accounts found.")
			return
		}
		if len(accounts) > 1 {
			fmt.Println("Multiple accounts stored; specify which to remove:")
			for _, account := range accounts {
				fmt.Printf("  igharvest auth logout %s\n", account.Username)
			}
			return
		}

		username = accounts[0].Username
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Remove account %q? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	if err := manager.Delete(username); err != nil {
		fatal("failed to remove account", err)
	}
	fmt.Println("Account removed:", username)
}

func runAccounts(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("failed to initialize credential manager", err)
	}

	accounts, err := manager.List()
	if err != nil {
		fatal("failed to list accounts", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'igharvest auth login' to add one.")
		return
	}

	fmt.Println("Stored accounts:")
	fmt.Println()
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Username: %s\n", i+1, sanitized.Username)
		fmt.Printf("   Session ID: %s\n", sanitized.SessionID)
		fmt.Printf("   CSRF Token: %s\n", sanitized.CSRFToken)
		if sanitized.DSUserID != "" {
			fmt.Printf("   User ID: %s\n", sanitized.DSUserID)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a value from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(value)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
