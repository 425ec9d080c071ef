package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/auth"
	"github.com/neonalpha/alpha-term/internal/render"
	"github.com/neonalpha/alpha-term/internal/watch"
)

var (
	loginToken        string
	loginRefreshToken string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login with your NeonAlpha email and password",
	Long: `Login to NeonAlpha. Prompts for email and password, or accepts
tokens directly:

  alpha-term login
  alpha-term login --token ACCESS_TOKEN --refresh-token REFRESH_TOKEN`,
	Run: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginToken, "token", "", "access token (skips the password prompt)")
	loginCmd.Flags().StringVar(&loginRefreshToken, "refresh-token", "", "refresh token for automatic session renewal")
}

func runLogin(cmd *cobra.Command, args []string) {
	env, err := newEnv()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}

	fmt.Printf("\n%sNeonAlpha CLI Login%s\n\n", render.Cyan, render.Reset)

	var tokens *api.Tokens

	if loginToken != "" {
		tokens = &api.Tokens{AccessToken: loginToken, RefreshToken: loginRefreshToken}
	} else {
		email, err := promptLine("Email: ")
		if err != nil {
			PrintError(fmt.Sprintf("read email: %v", err), true)
			return
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			PrintError(fmt.Sprintf("read password: %v", err), true)
			return
		}
		if email == "" || password == "" {
			PrintError("email and password are required", true)
			return
		}

		tokens, err = env.client.Login(cmd.Context(), email, password)
		if err != nil {
			PrintError(fmt.Sprintf("login failed: %v", err), true)
			return
		}
	}

	if err := env.creds.SaveTokens(tokens); err != nil {
		PrintError(err.Error(), true)
		return
	}

	fmt.Println("Validating subscription...")
	status := watch.ValidateSession(cmd.Context(), env.client)
	if !status.Valid {
		fmt.Printf("%sAccess denied.%s\n\n", render.Red, render.Reset)
		fmt.Println(strings.Repeat(render.BoxH, 55))
		fmt.Println(status.Message)
		fmt.Println(strings.Repeat(render.BoxH, 55))
		fmt.Println()

		// Don't keep credentials that can't use the CLI.
		env.creds.Clear()
		return
	}

	fmt.Printf("%sLogin successful!%s\n", render.Green, render.Reset)
	fmt.Printf("   Tier: %s\n", strings.ToUpper(status.Tier))
	if exp, ok := auth.TokenExpiry(tokens.AccessToken); ok {
		fmt.Printf("   Token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05 MST"))
	}
	if tokens.RefreshToken != "" {
		fmt.Println("   Token auto-refresh: enabled")
	}
	fmt.Println("\nNext steps:")
	fmt.Printf("  • Run '%salpha-term watch%s' to start monitoring\n", render.Green, render.Reset)
	fmt.Printf("  • Run '%salpha-term run%s' to see recent alerts\n\n", render.Green, render.Reset)
}

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword prompts for a password without echoing to the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		passwordBytes, err := term.ReadPassword(fd)
		fmt.Println() // Add newline after password input
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}

	// Fallback for non-terminal input (e.g., piped input)
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}
