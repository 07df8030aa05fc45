package excelop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/excelop/excelop-go/pkg/excelop/xlsconv"
)

// createBackup copies the source file into the backup directory under a
// timestamped name and rotates old backups. Backup failure is logged but
// not fatal: a broken backup disk must not block execution.
func (e *Executor) createBackup() {
	stem := strings.TrimSuffix(filepath.Base(e.path), filepath.Ext(e.path))
	name := fmt.Sprintf("%s_backup_%s%s", stem, time.Now().Format("20060102_150405"), filepath.Ext(e.path))

	if err := os.MkdirAll(e.opts.BackupDir, 0o755); err != nil {
		e.log.Warn("backup directory creation failed", zap.Error(err))
		return
	}
	dst := filepath.Join(e.opts.BackupDir, name)
	if err := copyFile(e.path, dst); err != nil {
		e.log.Warn("backup creation failed", zap.Error(err))
		return
	}
	e.backupPath = dst
	e.logf("created backup: %s", name)
	e.rotateBackups(stem, filepath.Ext(e.path))
}

// rotateBackups deletes the oldest backups of this file beyond BackupKeep.
func (e *Executor) rotateBackups(stem, ext string) {
	pattern := filepath.Join(e.opts.BackupDir, stem+"_backup_*"+ext)
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) <= e.opts.BackupKeep {
		return
	}
	type aged struct {
		path string
		mod  time.Time
	}
	backups := make([]aged, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		backups = append(backups, aged{m, info.ModTime()})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].mod.After(backups[j].mod) })
	for _, old := range backups[min(e.opts.BackupKeep, len(backups)):] {
		if err := os.Remove(old.path); err == nil {
			e.logf("removed old backup: %s", filepath.Base(old.path))
		}
	}
}

// BackupPath returns the backup created for this session, or the empty
// string when backups are disabled or creation failed.
func (e *Executor) BackupPath() string {
	if e.backupPath == "" {
		return ""
	}
	if _, err := os.Stat(e.backupPath); err != nil {
		return ""
	}
	return e.backupPath
}

// RestoreFromBackup copies the session backup back over the source file and
// reloads the workbook.
func (e *Executor) RestoreFromBackup() error {
	if e.BackupPath() == "" {
		return ErrNoBackup
	}
	if e.wb != nil {
		if err := e.wb.Close(); err != nil {
			e.log.Warn("closing workbook before restore failed", zap.Error(err))
		}
	}
	if err := copyFile(e.backupPath, e.path); err != nil {
		return fmt.Errorf("restore from backup: %w", err)
	}
	if e.tempPath != "" {
		os.Remove(e.tempPath)
		tmp, err := xlsconv.Convert(e.path, e.log)
		if err != nil {
			return fmt.Errorf("restore from backup: %w", err)
		}
		e.tempPath = tmp
	}
	wb, err := openWorkbook(e.loadPath(), e.log)
	if err != nil {
		return fmt.Errorf("reload after restore: %w", err)
	}
	e.wb = wb
	e.logf("restored from backup: %s", filepath.Base(e.backupPath))
	return nil
}

// RestoreLatest copies the newest backup of the given file back over it and
// returns the backup path it used. It works across sessions: any backup in
// opts.BackupDir matching the file's naming scheme qualifies.
func RestoreLatest(path string, opts Options) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pattern := filepath.Join(opts.BackupDir, stem+"_backup_*"+filepath.Ext(path))
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", ErrNoBackup
	}
	newest := ""
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", ErrNoBackup
	}
	if err := copyFile(newest, path); err != nil {
		return "", fmt.Errorf("restore from backup: %w", err)
	}
	return newest, nil
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
		out.Close()
		return err
	}
	return out.Close()
}
