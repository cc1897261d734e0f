package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/smejjout/ubidl/internal/fetch"
	"github.com/smejjout/ubidl/pkg/ubicast"
	"go.uber.org/zap"
)

var errNoSelectedTracks = errors.New("no tracks selected for download")

// processLink runs the whole pipeline for one link: resolve the media
// through the API, bring its resources local and hand them to the
// converter. Failures are recorded with the stage they happened in.
func (r *Root) processLink(ctx context.Context, link string) Result {
	result := Result{Link: link}
	logger := zap.L().With(zap.String("link", link))
	logger.Info("Resolving link")
	media, err := r.client.Resolve(ctx, link)
	if err != nil {
		result.Stage, result.Err = StageResolve, err
		return result
	}
	result.Title = media.Title
	logger = logger.With(zap.String("oid", media.OID), zap.String("title", media.Title))

	var video *ubicast.Track
	if r.trackName != "" || len(media.Tracks) > 0 {
		if video, err = media.SelectTrack(r.trackName); err != nil {
			result.Stage, result.Err = StageResolve, err
			return result
		}
	}
	audio, err := media.AudioTrack(r.audioIndex)
	if err != nil {
		result.Stage, result.Err = StageResolve, err
		return result
	}
	if video == nil && audio == nil {
		result.Stage, result.Err = StageResolve, errNoSelectedTracks
		return result
	}

	title := fetch.SanitizeTitle(media.Title)
	if title == "" {
		title = media.OID
	}
	finalPath := fetch.UniquePath(filepath.Join(r.cfg.OutputDirectory, title+"."+r.cfg.Container))

	var inputs, downloads []string
	if video != nil && video.HLS() {
		logger.Info("Selecting playlist variant", zap.String("playlist", video.URL))
		variant, err := r.selector.BestVariant(ctx, video.URL)
		if err != nil {
			result.Stage, result.Err = StageResolve, err
			return result
		}
		// The converter pulls HLS segments itself.
		inputs = append(inputs, variant)
		if audio != nil {
			inputs = append(inputs, audio.URL)
		}
	} else {
		if video != nil {
			dest := fetch.UniquePath(filepath.Join(r.cfg.OutputDirectory, title+fetch.ExtensionFromURL(video.URL, ".mp4")))
			written, err := r.fetcher.Fetch(ctx, video.URL, dest)
			if err != nil {
				result.Stage, result.Err = StageFetch, err
				return result
			}
			result.Bytes += written
			inputs = append(inputs, dest)
			downloads = append(downloads, dest)
		}
		if audio != nil {
			dest := fetch.UniquePath(filepath.Join(r.cfg.OutputDirectory, title+".audio"+fetch.ExtensionFromURL(audio.URL, ".mp3")))
			written, err := r.fetcher.Fetch(ctx, audio.URL, dest)
			if err != nil {
				result.Stage, result.Err = StageFetch, err
				return result
			}
			result.Bytes += written
			inputs = append(inputs, dest)
			downloads = append(downloads, dest)
		}
	}

	logger.Info("Converting", zap.Strings("inputs", inputs), zap.String("output", finalPath))
	if err := r.converter.Convert(ctx, inputs, finalPath); err != nil {
		// A failed conversion leaves the downloaded files in place.
		result.Stage, result.Err = StageConvert, err
		return result
	}
	if !r.cfg.KeepSources {
		for _, download := range downloads {
			if download == finalPath {
				continue
			}
			os.Remove(download)
		}
	}
	if result.Bytes == 0 {
		if stat, err := os.Stat(finalPath); err == nil {
			result.Bytes = stat.Size()
		}
	}
	result.Output = finalPath
	logger.Info("Finished link", zap.String("output", finalPath))
	return result
}
