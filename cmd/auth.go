package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// AuthLogin signs in and persists the session locally.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	session, err := r.auth.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ %s님, 환영합니다!\n", session.User.Name)
}

// AuthSignupRequest starts registration by requesting a verification code.
func (r *Runner) AuthSignupRequest(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.auth.SignupRequest(ctx, cmd.String("email"), cmd.String("password"), cmd.String("name"))
	if err != nil {
		return err
	}

	r.logger.Info("signup requested", "userId", userID)
	return r.writePlain("인증 코드를 이메일로 보냈어요. 'auth signup confirm'으로 완료해주세요.\n")
}

// AuthSignupConfirm completes registration with the emailed code.
func (r *Runner) AuthSignupConfirm(ctx context.Context, cmd *cli.Command) error {
	session, err := r.auth.SignupConfirm(ctx, cmd.String("email"), cmd.String("code"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ 가입 완료! %s님, 환영합니다.\n'moviesir onboard'로 취향을 알려주세요.\n", session.User.Name)
}

// AuthSignupResend requests a fresh verification code.
func (r *Runner) AuthSignupResend(ctx context.Context, cmd *cli.Command) error {
	message, err := r.auth.SignupResend(ctx, cmd.String("email"))
	if err != nil {
		return err
	}
	if message == "" {
		message = "인증 코드를 다시 보냈어요."
	}

	return r.writePlain("%s\n", message)
}

// AuthLogout signs out and destroys the local session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ 로그아웃했어요.\n")
}

// AuthWhoami prints the locally stored user.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}
	return r.writePlain("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
}
