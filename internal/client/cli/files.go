package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/filex"
)

const downloadDir = "downloads"

// promptKey reads the hidden encryption key from the terminal. The returned
// string must not be logged.
func (a *App) promptKey(prompt string) (string, error) {
	raw, err := getKey(prompt, os.Stdout)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(raw)
	return string(raw), nil
}

// promptFileID resolves the target file id from the command argument or an
// interactive prompt.
func (a *App) promptFileID(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	return getSimpleText(a.reader, "Enter file id", os.Stdout)
}

// List prints metadata for all of the identity's files, newest first.
func (a *App) List(ctx context.Context) error {
	files, err := a.files.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(files) == 0 {
		fmt.Println("No files stored.")
		return nil
	}
	for _, f := range files {
		fmt.Printf("%s  %-30s %-20s %8d bytes  %s\n",
			f.ID, f.Name, f.Type, f.Size, f.UploadedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Upload reads a local file, encrypts it with the user's key, and stores the
// ciphertext on the file service.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter path of the file to upload", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Cannot read file:", err.Error())
		return err
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	key, err := a.promptKey("Enter encryption key")
	if err != nil {
		return err
	}

	stored, err := a.files.Upload(ctx, name, mimeType, data, key)
	if err != nil {
		fmt.Println("Upload failed:", err.Error())
		return err
	}

	fmt.Printf("Uploaded %s (%d bytes) as %s\n", stored.Name, stored.Size, stored.ID)
	return nil
}

// Download fetches a file's ciphertext, decrypts it locally, and writes the
// plaintext into the downloads subdirectory.
func (a *App) Download(ctx context.Context, fileID string) error {
	fileID, err := a.promptFileID(fileID)
	if err != nil {
		return err
	}

	key, err := a.promptKey("Enter encryption key")
	if err != nil {
		return err
	}

	file, plaintext, err := a.files.Download(ctx, fileID, key)
	if err != nil {
		fmt.Println("Download failed:", err.Error())
		return err
	}

	dir, err := filex.EnsureSubDir(downloadDir)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	target := filepath.Join(dir, file.Name)
	if err := os.WriteFile(target, plaintext, 0o600); err != nil {
		fmt.Println("Cannot write file:", err.Error())
		return err
	}

	fmt.Printf("Saved %s (%d bytes) to %s\n", file.Name, len(plaintext), target)
	return nil
}

// Modify replaces a stored file's content with a new local file. The
// replacement must carry the same name and mime type as the stored record.
func (a *App) Modify(ctx context.Context, fileID string) error {
	fileID, err := a.promptFileID(fileID)
	if err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Enter path of the replacement file", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Cannot read file:", err.Error())
		return err
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	key, err := a.promptKey("Enter encryption key")
	if err != nil {
		return err
	}

	stored, err := a.files.Modify(ctx, fileID, name, mimeType, data, key)
	if err != nil {
		fmt.Println("Modify failed:", err.Error())
		return err
	}

	fmt.Printf("Replaced content of %s (%d bytes)\n", stored.Name, stored.Size)
	return nil
}

// Remove deletes a stored file. The key is prompted again here even if the
// user entered it for a previous command; deletion is destructive and the
// extra prompt doubles as a confirmation.
func (a *App) Remove(ctx context.Context, fileID string) error {
	fileID, err := a.promptFileID(fileID)
	if err != nil {
		return err
	}

	key, err := a.promptKey("Enter encryption key to confirm deletion")
	if err != nil {
		return err
	}

	if err := a.files.Delete(ctx, fileID, key); err != nil {
		fmt.Println("Delete failed:", err.Error())
		return err
	}

	fmt.Println("Deleted", fileID)
	return nil
}
