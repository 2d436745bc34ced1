// Package remote enumerates the packages installed on a rooted Android
// device over SSH and reads their install packages over SFTP. It covers
// devices that are reachable on the network but not through a local adb
// server.
package remote

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/fieldworks/apkex/internal/inventory"
	"github.com/fieldworks/apkex/internal/pm"
)

// Source enumerates packages on a device reached over SSH.
type Source struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// Dial connects to the device and opens the SFTP subsystem.
func Dial(addr string, user string, password string) (*Source, error) {
	// Establish SSH connection
	sshClient, err := ssh.Dial(
		"tcp",
		addr,
		&ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.Password(password)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         30 * time.Second,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("establish SSH connection: %w", err)
	}

	// Establish SFTP connection
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("establish SFTP connection: %w", err)
	}

	return &Source{sshClient: sshClient, sftpClient: sftpClient}, nil
}

// Close tears down the SFTP and SSH connections.
func (s *Source) Close() {
	s.sftpClient.Close() //nolint
	s.sshClient.Close()  //nolint
}

// shell runs one command on the device and returns its output.
func (s *Source) shell(command string) ([]byte, error) {
	session, err := s.sshClient.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	defer session.Close()

	out, err := session.Output(command)
	if err != nil {
		return nil, fmt.Errorf("run [%s]: %w", command, err)
	}

	return out, nil
}

// listCommand builds the `pm list packages` command line.
func listCommand(opts inventory.ListOptions, withPaths bool) string {
	command := "pm list packages"

	if withPaths {
		command += " -f"
	}

	if !opts.IncludeSystemApps {
		command += " -3"
	}

	return command
}

// CountInstalled returns the number of installed packages in one up-front
// query.
func (s *Source) CountInstalled(ctx context.Context, opts inventory.ListOptions) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := s.shell(listCommand(opts, false))
	if err != nil {
		return 0, err
	}

	return len(pm.ParsePackageList(string(out))), nil
}

// Installed enumerates installed applications one by one, reading per-package
// parameters through `dumpsys package` like the adb source does.
func (s *Source) Installed(ctx context.Context, opts inventory.ListOptions) iter.Seq2[*inventory.Application, error] {
	return func(yield func(*inventory.Application, error) bool) {
		out, err := s.shell(listCommand(opts, true))
		if err != nil {
			yield(nil, err)
			return
		}

		for _, entry := range pm.ParsePackageList(string(out)) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			app := &inventory.Application{
				Identifier: entry.Identifier,
				Name:       pm.Label(entry.Identifier),
				Path:       entry.Path,
			}

			paramsOut, err := s.shell("dumpsys package " + entry.Identifier)
			if err != nil {
				slog.Warn("Failed to read package parameters", slog.String("identifier", entry.Identifier), slog.Any("error", err))
			} else if params, err := pm.ParseParams(string(paramsOut)); err == nil {
				app.Version = params.VersionName
			}

			if !yield(app, nil) {
				return
			}
		}
	}
}

// ReadPackage reads the full bytes of an install package over SFTP.
func (s *Source) ReadPackage(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Open remote file
	remoteFile, err := s.sftpClient.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open remote file: %w", err)
	}

	defer remoteFile.Close()

	// Read content
	data, err := io.ReadAll(remoteFile)
	if err != nil {
		return nil, fmt.Errorf("read remote file: %w", err)
	}

	return data, nil
}
