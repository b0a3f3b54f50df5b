package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/sonata/internal/services"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/urfave/cli/v3"
)

// apiFor returns the API client, authorized with the saved token for role when role is set.
func (r *Runner) apiFor(role string) (*services.APIService, error) {
	if role == "" {
		return r.api, nil
	}
	role, err := shared.ParseRole(role)
	if err != nil {
		return nil, err
	}
	tok, err := r.token(role)
	if err != nil {
		return nil, err
	}
	return r.api.WithToken(tok), nil
}

func normalizePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}

// APIGet makes a direct GET request to the API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := normalizePath(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	api, err := r.apiFor(cmd.String("as"))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := api.Get(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeResponse(resp, !cmd.Bool("json"))
}

// APIPost makes a direct POST request to the API
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, err := normalizePath(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	api, err := r.apiFor(cmd.String("as"))
	if err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeResponse(resp, true)
}

// writeResponse prints the body, then fails with the envelope message when the call did not succeed.
func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.IsJSON {
		if err := r.writeJSON(resp.JSONData, pretty); err != nil {
			return err
		}
	} else {
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
	}

	if resp.OK() {
		return nil
	}

	msg := ""
	if resp.Envelope != nil {
		msg = resp.Envelope.Message
	}
	return fmt.Errorf("%w: status %d %s", shared.ErrAPIRequest, resp.StatusCode, msg)
}
