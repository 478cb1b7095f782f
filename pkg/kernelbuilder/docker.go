// SPDX-License-Identifier: Apache-2.0
/*
Copyright (C) 2023 The linux-surface Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
    http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package kernelbuilder

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/falcosecurity/falcoctl/pkg/output"
	"github.com/google/uuid"
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

const DockerBuildProcessorName = "docker"

// DockerBuildProcessor runs the external builder inside a container.
//
// The repository and the tool directory are bind mounted at their host paths,
// so that the request arguments are valid inside the container too.
type DockerBuildProcessor struct {
	image       string
	pull        bool
	networkMode string
	dns         []string
	stdout      io.Writer
	stderr      io.Writer
	*output.Printer
}

func NewDockerBuildProcessor(image string, pull bool, networkMode string, dns []string) *DockerBuildProcessor {
	if image == "" {
		image = DefaultBuilderImage
	}
	return &DockerBuildProcessor{
		image:       image,
		pull:        pull,
		networkMode: networkMode,
		dns:         dns,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
}

func (bp *DockerBuildProcessor) String() string {
	return DockerBuildProcessorName
}

// Start the docker processor
func (bp *DockerBuildProcessor) Start(ctx context.Context, b *builder.Build) error {
	bp.Printer = b.Printer
	req, err := b.Request(ctx)
	if err != nil {
		return err
	}

	bp.Logger.Debug("doing a new docker build")
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer cli.Close()

	if err := bp.ensureImage(ctx, cli); err != nil {
		return err
	}

	workDir := b.Local.Path("")
	containerCfg := &container.Config{
		Image:        bp.image,
		Cmd:          req.Command(),
		WorkingDir:   workDir,
		AttachStdout: true,
		AttachStderr: true,
	}
	hostCfg := &container.HostConfig{
		Mounts:      bindMounts(b.Repo.Path(""), workDir),
		NetworkMode: container.NetworkMode(bp.networkMode),
		DNS:         bp.dns,
	}

	name := fmt.Sprintf("surfacekit-%s", uuid.NewString())
	bp.Logger.Info("starting builder container", bp.Logger.Args("image", bp.image, "name", name, "major", req.Major, "secureboot", req.SecureBoot))
	bp.Logger.Debug("builder arguments", bp.Logger.Args("args", req.Args()))

	cdata, err := cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, &v1.Platform{Architecture: runtime.GOARCH, OS: "linux"}, name)
	if err != nil {
		return err
	}
	defer bp.cleanup(cli, cdata.ID)

	// Register the wait before starting, otherwise a fast exit could be missed.
	statusCh, errCh := cli.ContainerWait(ctx, cdata.ID, container.WaitConditionNextExit)

	if err := cli.ContainerStart(ctx, cdata.ID, container.StartOptions{}); err != nil {
		return err
	}

	logs, err := cli.ContainerLogs(ctx, cdata.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return err
	}
	defer logs.Close()
	if _, err := stdcopy.StdCopy(bp.stdout, bp.stderr, logs); err != nil {
		bp.Logger.Warn("log pipe error", bp.Logger.Args("err", err.Error()))
	}

	select {
	case err := <-errCh:
		if ctx.Err() != nil {
			bp.interrupt(cli, cdata.ID)
		}
		return err
	case status := <-statusCh:
		if status.Error != nil {
			return fmt.Errorf("waiting for container %s: %s", name, status.Error.Message)
		}
		if status.StatusCode != 0 {
			return &builder.BuildFailedError{ExitCode: int(status.StatusCode)}
		}
	}
	bp.Logger.Info("build completed")
	return nil
}

func (bp *DockerBuildProcessor) ensureImage(ctx context.Context, cli *client.Client) error {
	if !bp.pull {
		_, _, err := cli.ImageInspectWithRaw(ctx, bp.image)
		if err == nil {
			return nil
		}
		if !client.IsErrNotFound(err) {
			return err
		}
	}

	bp.Logger.Debug("pulling builder image", bp.Logger.Args("image", bp.image))
	pullRes, err := cli.ImagePull(ctx, bp.image, image.PullOptions{Platform: "linux/" + runtime.GOARCH})
	if err != nil {
		return err
	}
	defer pullRes.Close()
	_, err = io.Copy(io.Discard, pullRes)
	return err
}

// interrupt stops the builder the way an interactive interrupt would, killing it after the grace period.
func (bp *DockerBuildProcessor) interrupt(cli *client.Client, ID string) {
	timeout := int(interruptGracePeriod.Seconds())
	bp.Logger.Info("interrupting builder container", bp.Logger.Args("container_id", ID))
	if err := cli.ContainerStop(context.Background(), ID, container.StopOptions{Signal: "SIGINT", Timeout: &timeout}); err != nil {
		bp.Logger.Warn("error interrupting container", bp.Logger.Args("err", err.Error(), "container_id", ID))
	}
}

func (bp *DockerBuildProcessor) cleanup(cli *client.Client, ID string) {
	if err := cli.ContainerRemove(context.Background(), ID, container.RemoveOptions{Force: true}); err != nil && !client.IsErrNotFound(err) {
		bp.Logger.Error("error removing container", bp.Logger.Args("err", err.Error(), "container_id", ID))
	}
}

// bindMounts returns one bind mount per directory, skipping the ones already covered by a parent.
func bindMounts(dirs ...string) []mount.Mount {
	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)

	var mounts []mount.Mount
next:
	for _, d := range sorted {
		for _, m := range mounts {
			if d == m.Source || strings.HasPrefix(d, m.Source+string(os.PathSeparator)) {
				continue next
			}
		}
		mounts = append(mounts, mount.Mount{
			Type:   mount.TypeBind,
			Source: d,
			Target: d,
		})
	}
	return mounts
}
