package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"fixturecal/internal/logging"
)

var commandContext = exec.CommandContext

// Publisher force-publishes a directory as the complete contents of a git
// branch, cloning into a scratch checkout under workDir.
type Publisher struct {
	logger         *slog.Logger
	binary         string
	remote         string
	branch         string
	token          string
	committerName  string
	committerEmail string
	workDir        string
}

// Result reports what a publish run did.
type Result struct {
	Committed bool
	Commit    string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithGitBinary overrides the git binary name.
func WithGitBinary(binary string) Option {
	return func(p *Publisher) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithToken sets the access token injected into HTTPS remotes.
func WithToken(token string) Option {
	return func(p *Publisher) {
		p.token = token
	}
}

// WithCommitter overrides the commit author identity.
func WithCommitter(name, email string) Option {
	return func(p *Publisher) {
		if name != "" {
			p.committerName = name
		}
		if email != "" {
			p.committerEmail = email
		}
	}
}

// New creates a publisher targeting branch on remote. Scratch checkouts are
// created under workDir.
func New(remote, branch, workDir string, logger *slog.Logger, opts ...Option) (*Publisher, error) {
	if strings.TrimSpace(remote) == "" {
		return nil, errors.New("remote url required")
	}
	if strings.TrimSpace(branch) == "" {
		return nil, errors.New("branch required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	publisher := &Publisher{
		logger:         logging.NewComponentLogger(logger, "publish"),
		binary:         "git",
		remote:         remote,
		branch:         branch,
		committerName:  "fixturecal",
		committerEmail: "fixturecal@users.noreply.github.com",
		workDir:        workDir,
	}
	for _, opt := range opts {
		opt(publisher)
	}
	return publisher, nil
}

// authRemote injects the token into HTTPS remote URLs. Non-HTTP remotes
// (ssh and local paths) pass through untouched.
func (p *Publisher) authRemote() string {
	if p.token == "" {
		return p.remote
	}
	parsed, err := url.Parse(p.remote)
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		return p.remote
	}
	parsed.User = url.UserPassword("x-access-token", p.token)
	return parsed.String()
}

// redact removes the token from text destined for logs and errors.
func (p *Publisher) redact(text string) string {
	if p.token == "" {
		return text
	}
	return strings.ReplaceAll(text, p.token, "***")
}

func (p *Publisher) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := commandContext(ctx, p.binary, args...) //nolint:gosec
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s",
			p.redact(strings.Join(args, " ")), err, p.redact(strings.TrimSpace(string(output))))
	}
	return strings.TrimSpace(string(output)), nil
}

// Publish replaces the branch contents with sourceDir. When the rendered
// tree matches what is already on the branch, nothing is pushed and the
// run still succeeds.
func (p *Publisher) Publish(ctx context.Context, sourceDir string) (Result, error) {
	var result Result

	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return result, fmt.Errorf("source directory %s unusable: %w", sourceDir, err)
	}

	scratch, err := os.MkdirTemp(p.workDir, "publish-")
	if err != nil {
		return result, fmt.Errorf("create scratch checkout: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := p.checkout(ctx, scratch); err != nil {
		return result, err
	}
	if err := p.replaceTree(scratch, sourceDir); err != nil {
		return result, err
	}

	if _, err := p.git(ctx, scratch, "add", "-A"); err != nil {
		return result, err
	}
	status, err := p.git(ctx, scratch, "status", "--porcelain")
	if err != nil {
		return result, err
	}
	if status == "" {
		p.logger.Info("branch already up to date",
			logging.String("branch", p.branch))
		return result, nil
	}

	message := "Update fixture calendars " + time.Now().UTC().Format("2006-01-02")
	if _, err := p.git(ctx, scratch,
		"-c", "user.name="+p.committerName,
		"-c", "user.email="+p.committerEmail,
		"commit", "-m", message,
	); err != nil {
		return result, err
	}
	commit, err := p.git(ctx, scratch, "rev-parse", "HEAD")
	if err != nil {
		return result, err
	}
	if _, err := p.git(ctx, scratch, "push", "--force", "origin", p.branch); err != nil {
		return result, err
	}

	result.Committed = true
	result.Commit = commit
	p.logger.Info("published site",
		logging.String("branch", p.branch),
		logging.String("commit", commit))
	return result, nil
}

// checkout clones the publish branch into dir, or initializes a fresh
// history when the branch does not exist yet on the remote.
func (p *Publisher) checkout(ctx context.Context, dir string) error {
	remote := p.authRemote()
	_, err := p.git(ctx, dir, "clone", "--depth", "1", "--branch", p.branch, remote, ".")
	if err == nil {
		return nil
	}

	if _, initErr := p.git(ctx, dir, "init", "--initial-branch", p.branch); initErr != nil {
		return initErr
	}
	if _, remoteErr := p.git(ctx, dir, "remote", "add", "origin", remote); remoteErr != nil {
		return remoteErr
	}
	p.logger.Info("branch missing on remote, starting fresh history",
		logging.String("branch", p.branch))
	return nil
}

// replaceTree clears everything except .git from the checkout and copies
// the source directory in.
func (p *Publisher) replaceTree(checkout, sourceDir string) error {
	entries, err := os.ReadDir(checkout)
	if err != nil {
		return fmt.Errorf("read checkout: %w", err)
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(checkout, entry.Name())); err != nil {
			return fmt.Errorf("clear checkout: %w", err)
		}
	}
	return copyTree(sourceDir, checkout)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
