package cmd

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/auth"
	"github.com/lnkd/linkedin-cli/internal/config"
	"github.com/lnkd/linkedin-cli/internal/debug"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/oauth"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

const (
	defaultRedirectURL = "http://127.0.0.1:8484/callback"
	loginWaitTimeout   = 5 * time.Minute
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage LinkedIn credentials",
		Long:  "Authorize the CLI against LinkedIn and manage the stored credential profiles.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())

	return groupCmd(cmd)
}

type loginOptions struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string
	noBrowser    bool
	token        string
	code         string
}

func newAuthLoginCmd() *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize with LinkedIn",
		Long: strings.TrimSpace(`
Authorize the CLI with your LinkedIn application and store the member token.

The default flow opens the authorization page in a browser and receives the
redirect on a loopback address. The redirect URL must be registered with
your LinkedIn application.

Credentials are kept in the OS keychain, or in Redis when LINKEDIN_REDIS_URL
is set.
`),
		Example: strings.TrimSpace(`
  # Browser flow
  li auth login --client-id ID --client-secret SECRET

  # Headless: open the printed URL elsewhere, then paste the code
  li auth login --client-id ID --client-secret SECRET --no-browser
  li auth login --code AUTHORIZATION_CODE

  # Store a token obtained elsewhere
  li auth login --token ACCESS_TOKEN --profile work
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.clientID, "client-id", "", "LinkedIn application client id (env LINKEDIN_CLIENT_ID)")
	cmd.Flags().StringVar(&opts.clientSecret, "client-secret", "", "LinkedIn application client secret (env LINKEDIN_CLIENT_SECRET)")
	cmd.Flags().StringVar(&opts.redirectURL, "redirect-url", "", "Loopback redirect URL registered with the application (default "+defaultRedirectURL+")")
	cmd.Flags().StringSliceVar(&opts.scopes, "scope", nil, "Member permissions to request (repeatable)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	cmd.Flags().StringVar(&opts.token, "token", "", "Store this access token without running the OAuth flow")
	cmd.Flags().StringVar(&opts.code, "code", "", "Exchange an authorization code obtained out of band")
	cmd.MarkFlagsMutuallyExclusive("token", "code")

	return cmd
}

func runLogin(cmd *cobra.Command, opts loginOptions) error {
	ctx := cmdContext(cmd)
	profile := flags.Profile
	if profile == "" {
		profile = config.ActiveProfile()
	}

	creds, err := config.LoadCredentials(profile)
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return err
	}
	if opts.clientID != "" {
		creds.ClientID = opts.clientID
	}
	if opts.clientSecret != "" {
		creds.ClientSecret = opts.clientSecret
	}
	if opts.redirectURL != "" {
		creds.RedirectURL = opts.redirectURL
	}
	if creds.RedirectURL == "" {
		creds.RedirectURL = defaultRedirectURL
	}
	if len(opts.scopes) > 0 {
		creds.Scopes = opts.scopes
	}

	if tok := strings.TrimSpace(opts.token); tok != "" {
		creds.Token = &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}
		return finishLogin(cmd, profile, creds, "")
	}

	if creds.BaseURL != "" {
		if err := validation.ValidateBaseURL(creds.BaseURL); err != nil {
			return fmt.Errorf("%w: base URL: %v", api.ErrInvalidArgument, err)
		}
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return &api.ArgumentError{Arg: "--client-id/--client-secret", Reason: "both are required for the OAuth flow (or pass --token)"}
	}

	factory := newClientFactory()
	var tok *oauth2.Token
	var client *api.Client
	if code := strings.TrimSpace(opts.code); code != "" {
		client = factory.newClient(creds.BaseURL, creds.OAuth())
		tok, err = exchange(ctx, client, code, "")
	} else {
		client, tok, err = browserLogin(cmd, factory, profile, creds, !opts.noBrowser)
	}
	if err != nil {
		return err
	}

	creds.Token = tok
	return finishLogin(cmd, profile, creds, memberName(ctx, client))
}

// browserLogin runs the request-token / callback / access-token sequence
// through the client's delegate.
func browserLogin(cmd *cobra.Command, factory *clientFactory, profile string, creds config.Credentials, openBrowser bool) (*api.Client, *oauth2.Token, error) {
	ctx := cmdContext(cmd)

	srv, err := auth.NewCallbackServer(creds.RedirectURL, "", profile)
	if err != nil {
		return nil, nil, err
	}
	srv.Out = iocontext.GetIO(ctx).ErrOut

	oc := creds.OAuth()
	oc.RedirectURL = srv.RedirectURL()
	client := factory.newClient(creds.BaseURL, oc)

	result, err := client.Call(ctx, oauth.OpRequestToken)
	if err != nil {
		_ = srv.Close()
		return nil, nil, err
	}
	rt, ok := result.(*oauth.RequestToken)
	if !ok {
		_ = srv.Close()
		return nil, nil, fmt.Errorf("unexpected %s result %T", oauth.OpRequestToken, result)
	}

	waitCtx, cancel := context.WithTimeout(ctx, loginWaitTimeout)
	defer cancel()
	cb, err := srv.Wait(waitCtx, rt.AuthURL, openBrowser)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("timed out waiting for the authorization redirect: %w", err)
		}
		return nil, nil, err
	}

	tok, err := exchange(ctx, client, cb.Code, cb.State)
	return client, tok, err
}

// exchange trades code for a token through the dispatcher, which rebinds
// the client to an authenticated transport on success.
func exchange(ctx context.Context, client *api.Client, code, state string) (*oauth2.Token, error) {
	result, err := client.Call(ctx, oauth.OpAccessToken, code, state)
	if err != nil {
		return nil, err
	}
	tok, ok := result.(*oauth2.Token)
	if !ok || tok == nil {
		return nil, fmt.Errorf("unexpected %s result %T", oauth.OpAccessToken, result)
	}
	return tok, nil
}

// memberName fetches the authenticated member's name for the login
// message. Failures are not fatal; the token is stored either way.
func memberName(ctx context.Context, client *api.Client) string {
	if client == nil || !client.IsAuthenticated() {
		return ""
	}
	res, err := client.Profile(ctx, nil, false)
	if err == nil {
		err = res.Err()
	}
	var p api.Person
	if err == nil {
		err = res.Decode(&p)
	}
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("member lookup after login failed", "error", err)
		}
		return ""
	}
	return p.Name()
}

type loginResult struct {
	XMLName xml.Name `xml:"login" json:"-"`
	Profile string   `xml:"profile" json:"profile"`
	Member  string   `xml:"member,omitempty" json:"member,omitempty"`
	Expiry  string   `xml:"expiry,omitempty" json:"expiry,omitempty"`
	Backend string   `xml:"backend" json:"backend"`
}

func finishLogin(cmd *cobra.Command, profile string, creds config.Credentials, member string) error {
	if err := config.SaveProfile(profile, creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	res := loginResult{Profile: profile, Member: member, Backend: config.StoreBackend()}
	if creds.Token != nil && !creds.Token.Expiry.IsZero() {
		res.Expiry = creds.Token.Expiry.UTC().Format(time.RFC3339)
	}
	if outfmt.IsStructured(cmdContext(cmd)) {
		return newFormatter(cmd).Output(res)
	}

	out := iocontext.GetIO(cmdContext(cmd)).Out
	if member != "" {
		_, _ = fmt.Fprintf(out, "Logged in as %s\n", member)
	} else {
		_, _ = fmt.Fprintln(out, "Credentials saved")
	}
	_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
	_, _ = fmt.Fprintf(out, "  Storage: %s\n", res.Backend)
	if res.Expiry != "" {
		_, _ = fmt.Fprintf(out, "  Expires: %s\n", res.Expiry)
	}
	return nil
}

type authStatus struct {
	XMLName       xml.Name `xml:"auth-status" json:"-"`
	Authenticated bool     `xml:"authenticated" json:"authenticated"`
	Profile       string   `xml:"profile,omitempty" json:"profile,omitempty"`
	Backend       string   `xml:"backend" json:"backend"`
	ClientID      string   `xml:"client-id,omitempty" json:"client_id,omitempty"`
	ClientSecret  string   `xml:"client-secret,omitempty" json:"client_secret,omitempty"`
	RedirectURL   string   `xml:"redirect-url,omitempty" json:"redirect_url,omitempty"`
	Scopes        []string `xml:"scopes>scope,omitempty" json:"scopes,omitempty"`
	BaseURL       string   `xml:"base-url" json:"base_url"`
	AccessToken   string   `xml:"access-token,omitempty" json:"access_token,omitempty"`
	Expiry        string   `xml:"expiry,omitempty" json:"expiry,omitempty"`
	Message       string   `xml:"message,omitempty" json:"message,omitempty"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Long:  "Display the active profile's credentials with secrets masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				profile = config.ActiveProfile()
			}
			st := authStatus{Profile: profile, Backend: config.StoreBackend()}

			creds, err := config.LoadCredentials(flags.Profile)
			switch {
			case errors.Is(err, config.ErrNotConfigured):
				st.Message = "Not authenticated. Run 'li auth login' to configure credentials."
			case err != nil:
				return fmt.Errorf("failed to load credentials: %w", err)
			default:
				st.Authenticated = creds.HasToken()
				st.ClientID = creds.ClientID
				st.ClientSecret = debug.MaskSecret(creds.ClientSecret)
				st.RedirectURL = creds.RedirectURL
				st.Scopes = creds.Scopes
				st.BaseURL = creds.BaseURL
				if creds.HasToken() {
					st.AccessToken = debug.MaskSecret(creds.Token.AccessToken)
					if !creds.Token.Expiry.IsZero() {
						st.Expiry = creds.Token.Expiry.UTC().Format(time.RFC3339)
					}
				}
			}
			if st.BaseURL == "" {
				st.BaseURL = api.DefaultBaseURL
			}

			if outfmt.IsStructured(cmdContext(cmd)) {
				return newFormatter(cmd).Output(st)
			}

			out := iocontext.GetIO(cmdContext(cmd)).Out
			if st.Message != "" {
				_, _ = fmt.Fprintln(out, st.Message)
				return nil
			}
			if st.Authenticated {
				_, _ = fmt.Fprintln(out, "Authenticated")
			} else {
				_, _ = fmt.Fprintln(out, "Not authenticated (no access token)")
			}
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", st.Profile)
			_, _ = fmt.Fprintf(out, "  Storage: %s\n", st.Backend)
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", st.BaseURL)
			if st.ClientID != "" {
				_, _ = fmt.Fprintf(out, "  Client ID: %s\n", st.ClientID)
				_, _ = fmt.Fprintf(out, "  Client Secret: %s\n", st.ClientSecret)
			}
			if len(st.Scopes) > 0 {
				_, _ = fmt.Fprintf(out, "  Scopes: %s\n", strings.Join(st.Scopes, " "))
			}
			if st.AccessToken != "" {
				_, _ = fmt.Fprintf(out, "  Access Token: %s\n", st.AccessToken)
			}
			if st.Expiry != "" {
				_, _ = fmt.Fprintf(out, "  Expires: %s\n", st.Expiry)
			}
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				profile = config.ActiveProfile()
			}
			if err := config.DeleteProfile(profile); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Removed credentials for profile %q\n", profile)
			return nil
		},
	}
}

type profileList struct {
	XMLName  xml.Name `xml:"profiles" json:"-"`
	Current  string   `xml:"current,attr" json:"current"`
	Profiles []string `xml:"profile" json:"profiles"`
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if outfmt.IsStructured(cmdContext(cmd)) {
				return f.Output(profileList{Current: current, Profiles: profiles})
			}
			if len(profiles) == 0 {
				f.Empty("No profiles stored. Run 'li auth login' to create one.")
				return nil
			}
			f.StartTable([]string{"PROFILE", "CURRENT"})
			for _, p := range profiles {
				mark := ""
				if p == current {
					mark = "*"
				}
				f.Row(p, mark)
			}
			return f.EndTable()
		},
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use PROFILE",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadProfile(args[0]); err != nil {
				return err
			}
			if err := config.SetCurrentProfile(args[0]); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Switched to profile %q\n", args[0])
			return nil
		},
	}
}
