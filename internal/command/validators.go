// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/attrs"
)

var (
	validOutputFlagValues = []string{"text", "json", "yaml"}
	validMirrorFlagValues = []string{"none", "disk", "badger", "s3"}
)

// GlobalFlagsValidator checks flag combinations that no single flag
// validator can see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.String("mirror") == "s3" && c.String("bucket") == "" {
		return errors.New("--bucket is required with --mirror=s3")
	}
	if origin := c.String("origin"); origin != "" {
		if err := OriginValidator(origin); err != nil {
			return fmt.Errorf("--origin %w", err)
		}
	}
	if spec := c.String("attrs"); spec != "" {
		var al attrs.AttrList
		if err := al.Set(spec); err != nil {
			return fmt.Errorf("--attrs %w", err)
		}
	}
	if c.Int64("max-size") < 0 {
		return errors.New("--max-size must not be negative")
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(validOutputFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func MirrorValidator(value any) error {
	if !slices.Contains(validMirrorFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validMirrorFlagValues)
	}
	return nil
}

// OriginValidator requires an absolute http(s) URL.
func OriginValidator(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil {
		return fmt.Errorf("is not a URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an http or https URL")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}
