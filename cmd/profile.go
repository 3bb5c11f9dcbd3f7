package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/moviesir/moviesir/internal/services"
	"github.com/moviesir/moviesir/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the signed-in user's profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	current, err := r.currentUser()
	if err != nil {
		return err
	}

	user, err := r.users.User(ctx, current.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("%s <%s>\n", user.Name, user.Email)
	r.writePlain("장르: %s\n", joinOrDash(user.Profile.FavoriteGenres))
	r.writePlain("OTT: %s\n", joinOrDash(user.Profile.OTTServices))
	return nil
}

// ProfileUpdate patches the fields set on the command line.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	current, err := r.currentUser()
	if err != nil {
		return err
	}

	update := services.ProfileUpdate{
		FavoriteGenres: cmd.StringSlice("genre"),
		OTTServices:    cmd.StringSlice("ott"),
	}
	if name := cmd.String("name"); name != "" {
		update.Name = &name
	}
	if update.Name == nil && update.FavoriteGenres == nil && update.OTTServices == nil {
		return fmt.Errorf("%w: nothing to update, pass --name, --genre or --ott", shared.ErrMissingArgument)
	}

	user, err := r.users.Update(ctx, current.ID, update)
	if err != nil {
		return err
	}

	r.logger.Info("profile updated", "userId", user.ID)
	return r.writePlainln("✓ 프로필을 수정했어요.")
}

// ProfileTheme shows the theme preference, or sets it when an argument is given.
func (r *Runner) ProfileTheme(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: local store not initialized", shared.ErrServiceUnavailable)
	}

	if theme := cmd.StringArg("theme"); theme != "" {
		if err := r.sessions.SetTheme(theme); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		return r.writePlainln("✓ 테마를 %s(으)로 바꿨어요.", theme)
	}

	return r.writePlain("%s\n", r.sessions.Theme())
}

// ProfileDelete removes the account. Destructive, so it insists on --yes.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	current, err := r.currentUser()
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		return r.writePlainln("탈퇴하려면 --yes 플래그를 함께 입력해주세요.")
	}

	if err := r.users.Delete(ctx, current.ID); err != nil {
		return err
	}
	return r.writePlainln("✓ 탈퇴가 완료되었습니다. 그동안 이용해주셔서 감사합니다.")
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
